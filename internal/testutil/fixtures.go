package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/wallet-custody-api/internal/chain"
	"github.com/dom/wallet-custody-api/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate registers the user via the API and returns the user and tokens
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, AuthResponse) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":    b.email,
		"password": b.password,
	})

	resp, err := http.Post(ts.URL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:    userID,
		Email: authResp.User.Email,
	}

	return user, authResp
}

// WalletBuilder creates custody records with a real keypair
type WalletBuilder struct {
	owner   *domain.User
	keypair *chain.Keypair
}

func NewWalletBuilder() *WalletBuilder {
	return &WalletBuilder{}
}

// WithOwner sets the owning user
func (b *WalletBuilder) WithOwner(user *domain.User) *WalletBuilder {
	b.owner = user
	return b
}

// WithKeypair sets the keypair instead of generating one
func (b *WalletBuilder) WithKeypair(kp chain.Keypair) *WalletBuilder {
	b.keypair = &kp
	return b
}

// Build creates the wallet in the database, creating an owner if none was set
func (b *WalletBuilder) Build(t *testing.T, db *gorm.DB) *domain.Wallet {
	t.Helper()

	if b.owner == nil {
		b.owner, _ = NewUserBuilder().Build(t, db)
	}

	if b.keypair == nil {
		kp, err := chain.NewKeypair()
		if err != nil {
			t.Fatalf("failed to generate keypair: %v", err)
		}
		b.keypair = &kp
	}

	wallet := &domain.Wallet{
		Address:    b.keypair.Address,
		PrivateKey: b.keypair.PrivateKey,
		UserID:     b.owner.ID,
		CreatedAt:  time.Now(),
	}

	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create wallet: %v", err)
	}

	return wallet
}

// DoJSON sends a JSON request with an optional bearer token
func DoJSON(t *testing.T, method, url, token string, payload interface{}) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() {
		resp.Body.Close()
	})

	return resp
}
