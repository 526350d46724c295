package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dom/wallet-custody-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewUserBuilder().WithEmail("existing@example.com").Build(t, ts.DB)

	tests := []struct {
		name            string
		request         map[string]string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "missing email",
			request:         map[string]string{"password": "password123"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Email and password are required",
		},
		{
			name:            "missing password",
			request:         map[string]string{"email": "someone@example.com"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Email and password are required",
		},
		{
			name:            "malformed email",
			request:         map[string]string{"email": "not-an-email", "password": "password123"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Email and password are required",
		},
		{
			name:            "password longer than 72 bytes",
			request:         map[string]string{"email": "long@example.com", "password": strings.Repeat("a", 80)},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Password must be at most 72 bytes",
		},
		{
			name:            "duplicate email",
			request:         map[string]string{"email": "existing@example.com", "password": "password123"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Email already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/auth/register"), "", tt.request)
			testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedMessage)
		})
	}

	t.Run("successful registration", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/auth/register"), "", map[string]string{
			"email":    "new@example.com",
			"password": "password123",
		})
		testutil.AssertStatusCode(t, resp, http.StatusCreated)

		var result testutil.AuthResponse
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, "new@example.com", result.User.Email)
		_, err := uuid.Parse(result.User.ID)
		assert.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().Build(t, ts.DB)

	t.Run("valid credentials", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/auth/login"), "", map[string]string{
			"email":    user.Email,
			"password": password,
		})
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result testutil.AuthResponse
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, user.ID.String(), result.User.ID)
		assert.Equal(t, user.Email, result.User.Email)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/auth/login"), "", map[string]string{
			"email":    user.Email,
			"password": "wrongpassword",
		})
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/auth/login"), "", map[string]string{
			"email":    "ghost@example.com",
			"password": password,
		})
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Invalid credentials")
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, auth := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	t.Run("valid refresh token", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/auth/refresh"), "", map[string]string{
			"token": auth.RefreshToken,
		})
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result testutil.AuthResponse
		testutil.AssertJSONResponse(t, resp, &result)
		require.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)

		ping := testutil.DoJSON(t, http.MethodGet, ts.URL("/ping"), result.AccessToken, nil)
		testutil.AssertStatusCode(t, ping, http.StatusOK)
	})

	t.Run("missing token", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/auth/refresh"), "", map[string]string{})
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Refresh token is required")
	})

	t.Run("access token is rejected", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/auth/refresh"), "", map[string]string{
			"token": auth.AccessToken,
		})
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Invalid refresh token")
	})
}

func TestAuthGate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, auth := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name            string
		header          string
		expectedStatus  int
		expectedMessage string
	}{
		{name: "no header", expectedStatus: http.StatusUnauthorized, expectedMessage: "Authorization header required"},
		{name: "wrong scheme", header: "Basic abc", expectedStatus: http.StatusUnauthorized, expectedMessage: "Invalid authorization header"},
		{name: "bearer without token", header: "Bearer ", expectedStatus: http.StatusUnauthorized, expectedMessage: "Invalid authorization header"},
		{name: "garbage token", header: "Bearer garbage", expectedStatus: http.StatusUnauthorized, expectedMessage: "Invalid token"},
		{name: "refresh token", header: "Bearer " + auth.RefreshToken, expectedStatus: http.StatusUnauthorized, expectedMessage: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, ts.URL("/ping"), nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedMessage)
		})
	}

	t.Run("valid access token", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.URL("/ping"), auth.AccessToken, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var body map[string]bool
		testutil.AssertJSONResponse(t, resp, &body)
		assert.True(t, body["success"])
	})
}
