package userdir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/adboard/adverts-service/internal/config"
)

var ErrNotFound = errors.New("user not found")

// Profile is the subset of the user directory response this service needs.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Client resolves user ids against the user service over HTTP. Every call
// uses the fixed per-call timeout from config; there are no retries.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.UserDirConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// GetOwnerEmail resolves a user id to the contact email the directory has on
// file for them.
func (c *Client) GetOwnerEmail(ctx context.Context, userID string) (string, error) {
	profile, err := c.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	return profile.Email, nil
}

func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	url := fmt.Sprintf("%s/api/user/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user directory request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user directory returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode user directory response: %w", err)
	}
	return &profile, nil
}
