package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Wallet struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey,omitempty"`
}

type WalletResponse struct {
	Message string `json:"message"`
	Wallet  Wallet `json:"wallet"`
}

type WalletSummary struct {
	ID        uint      `json:"id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

type Balance struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// Register creates a new account
func (c *APIClient) Register(email, password string) (*AuthResponse, error) {
	var result AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(http.MethodPost, "/auth/register", body, "", http.StatusCreated, &result); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &result, nil
}

// Login exchanges credentials for a token pair
func (c *APIClient) Login(email, password string) (*AuthResponse, error) {
	var result AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(http.MethodPost, "/auth/login", body, "", http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &result, nil
}

// Refresh trades a refresh token for a new pair
func (c *APIClient) Refresh(refreshToken string) (*TokenPair, error) {
	var result TokenPair
	body := map[string]string{"token": refreshToken}
	if err := c.do(http.MethodPost, "/auth/refresh", body, "", http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return &result, nil
}

// CreateWallet asks the server to generate and store a new keypair
func (c *APIClient) CreateWallet(token string) (*WalletResponse, error) {
	var result WalletResponse
	if err := c.do(http.MethodPost, "/wallet/create", nil, token, http.StatusCreated, &result); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	return &result, nil
}

// ImportWallet hands an existing key to the server
func (c *APIClient) ImportWallet(token, address, privateKey string) (*WalletResponse, error) {
	var result WalletResponse
	body := map[string]string{"address": address, "privateKey": privateKey}
	if err := c.do(http.MethodPost, "/wallet/import", body, token, http.StatusCreated, &result); err != nil {
		return nil, fmt.Errorf("import wallet: %w", err)
	}
	return &result, nil
}

// ListWallets returns the caller's wallets
func (c *APIClient) ListWallets(token string) ([]WalletSummary, error) {
	var result []WalletSummary
	if err := c.do(http.MethodPost, "/wallet/get", nil, token, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return result, nil
}

// Balance fetches the on-chain balance of any address
func (c *APIClient) Balance(token, address string) (*Balance, error) {
	var result Balance
	path := "/wallet/balance?address=" + url.QueryEscape(address)
	if err := c.do(http.MethodGet, path, nil, token, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	return &result, nil
}

func (c *APIClient) do(method, path string, body interface{}, token string, wantStatus int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bytes.TrimSpace(bodyBytes)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
