package myjellyfin

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jellyfinapi/jellyfin"
)

// Account is a signed-in MyJellyfin account.
type Account struct {
	client *Client

	ID           int64
	UUID         string
	Username     string
	Email        string
	Thumb        string
	Token        string
	Subscription bool
}

type accountResponse struct {
	ID           int64  `json:"id"`
	UUID         string `json:"uuid"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Thumb        string `json:"thumb"`
	AuthToken    string `json:"authToken"`
	Subscription struct {
		Active bool `json:"active"`
	} `json:"subscription"`
}

func (c *Client) accountFromResponse(resp accountResponse, fallbackToken string) *Account {
	token := strings.TrimSpace(resp.AuthToken)
	if token == "" {
		token = fallbackToken
	}
	return &Account{
		client:       c,
		ID:           resp.ID,
		UUID:         resp.UUID,
		Username:     resp.Username,
		Email:        resp.Email,
		Thumb:        resp.Thumb,
		Token:        token,
		Subscription: resp.Subscription.Active,
	}
}

// SignIn authenticates with a username and password and returns the account
// with its token.
func (c *Client) SignIn(ctx context.Context, username, password string) (*Account, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", jellyfin.ErrBadRequest)
	}
	body := map[string]string{
		"login":    username,
		"password": password,
	}
	var resp accountResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v2/users/signin", body, "", &resp); err != nil {
		return nil, err
	}
	account := c.accountFromResponse(resp, "")
	if account.Token == "" {
		return nil, fmt.Errorf("%w: sign-in response carried no token", jellyfin.ErrUnauthorized)
	}
	return account, nil
}

// Account fetches the account bound to an existing token.
func (c *Client) Account(ctx context.Context, token string) (*Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token required", jellyfin.ErrBadRequest)
	}
	var resp accountResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v2/user", nil, token, &resp); err != nil {
		return nil, err
	}
	return c.accountFromResponse(resp, token), nil
}

// Pin is a pending device link code shown to the user.
type Pin struct {
	ID        int64
	Code      string
	ExpiresAt time.Time
}

// PinStatus is one poll result for a pending pin.
type PinStatus struct {
	Authorized bool
	Token      string
	ExpiresAt  time.Time
}

type pinResponse struct {
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	AuthToken string  `json:"authToken"`
	ExpiresIn float64 `json:"expires_in"`
	ExpiresAt string  `json:"expires_at"`
}

func (p pinResponse) expirationTime() time.Time {
	if p.ExpiresAt != "" {
		if t, err := time.Parse(time.RFC3339, p.ExpiresAt); err == nil {
			return t
		}
	}
	if p.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(p.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

// RequestPin starts the device link flow. The returned code is entered by the
// user at the MyJellyfin link page; poll the pin until it reports authorized.
func (c *Client) RequestPin(ctx context.Context) (*Pin, error) {
	var resp pinResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v2/pins", nil, "", &resp); err != nil {
		return nil, err
	}
	return &Pin{
		ID:        resp.ID,
		Code:      resp.Code,
		ExpiresAt: resp.expirationTime(),
	}, nil
}

// PollPin checks whether the user has approved the link code. Authorized
// status carries the account token.
func (c *Client) PollPin(ctx context.Context, id int64) (*PinStatus, error) {
	var resp pinResponse
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/v2/pins/%d", id), nil, "", &resp); err != nil {
		return nil, err
	}
	status := &PinStatus{ExpiresAt: resp.expirationTime()}
	if token := strings.TrimSpace(resp.AuthToken); token != "" {
		status.Authorized = true
		status.Token = token
	}
	return status, nil
}

// WaitForPin polls the pin on the given interval until it is authorized, the
// pin expires, or the context is cancelled. On success the signed-in account
// is returned.
func (c *Client) WaitForPin(ctx context.Context, pin *Pin, interval time.Duration) (*Account, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.PollPin(ctx, pin.ID)
		if err != nil {
			return nil, err
		}
		if status.Authorized {
			return c.Account(ctx, status.Token)
		}
		if !pin.ExpiresAt.IsZero() && time.Now().After(pin.ExpiresAt) {
			return nil, fmt.Errorf("%w: link code %s expired", jellyfin.ErrUnauthorized, pin.Code)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
