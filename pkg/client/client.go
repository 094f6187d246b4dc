// Package client provides a typed Go client for the Keeper REST API with
// persistent bearer-token storage.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// User is the public user projection returned by the API.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Note mirrors the API's note representation.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResult carries the token and user returned by register/login.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// APIError is a non-2xx response decoded into the API's error shape.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client calls the Keeper API. The bearer token obtained from Register or
// Login is held in memory and, when TokenFile is set, persisted across runs.
// On a 401 the stored token is dropped, forcing a fresh login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	TokenFile  string

	token string
}

// New creates a client for the given base URL (e.g. http://localhost:5001).
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Token returns the currently held bearer token, loading it from TokenFile if
// none is in memory yet.
func (c *Client) Token() string {
	if c.token == "" && c.TokenFile != "" {
		if data, err := os.ReadFile(c.TokenFile); err == nil {
			c.token = strings.TrimSpace(string(data))
		}
	}
	return c.token
}

func (c *Client) setToken(token string) {
	c.token = token
	if c.TokenFile == "" {
		return
	}
	if token == "" {
		_ = os.Remove(c.TokenFile)
		return
	}
	_ = os.WriteFile(c.TokenFile, []byte(token), 0o600)
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.setToken(result.Token)
	return &result, nil
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.setToken(result.Token)
	return &result, nil
}

// Notes lists the authenticated user's notes, newest first.
func (c *Client) Notes(ctx context.Context) ([]Note, error) {
	var notes []Note
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote creates a note. Title may be empty.
func (c *Client) CreateNote(ctx context.Context, title, content string) (*Note, error) {
	var note Note
	err := c.do(ctx, http.MethodPost, "/api/notes", map[string]string{
		"title":   title,
		"content": content,
	}, &note)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote applies a partial update; nil fields are left unchanged.
func (c *Client) UpdateNote(ctx context.Context, id string, title, content *string) (*Note, error) {
	body := map[string]*string{}
	if title != nil {
		body["title"] = title
	}
	if content != nil {
		body["content"] = content
	}
	var note Note
	if err := c.do(ctx, http.MethodPut, "/api/notes/"+id, body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote deletes a note by id.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.setToken("")
		}
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	// The API answers either {"error","code"} or Echo's {"message"}.
	var body struct {
		Error   string `json:"error"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	message := body.Error
	if message == "" {
		message = body.Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Code:       body.Code,
	}
}
