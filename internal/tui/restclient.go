package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// timeout for admin API requests
const requestTimeout = 10 * time.Second

// manages HTTP requests to the admin REST API
type UsageClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// creates a new admin REST client
func NewUsageClient(endpoint, token string) *UsageClient {
	return &UsageClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// fetches usage for every known user
func (c *UsageClient) ListUsage(ctx context.Context) (map[string]UserUsage, error) {
	var result usageListResponse
	if err := c.do(ctx, http.MethodGet, "/admin/usage", &result); err != nil {
		return nil, err
	}

	return result.Users, nil
}

// zeroes one user's counter
func (c *UsageClient) ResetUsage(ctx context.Context, userID string) (*UserUsage, error) {
	var result resetResponse
	if err := c.do(ctx, http.MethodPost, "/admin/usage/"+url.PathEscape(userID)+"/reset", &result); err != nil {
		return nil, err
	}

	return &result.Usage, nil
}

func (c *UsageClient) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// handle error responses
	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Code != "" {
			return fmt.Errorf("%s: %s", errResp.Code, errResp.Message)
		}

		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// returns a tea.Cmd that fetches a fresh snapshot
func fetchCmd(fetch FetchFunc) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		users, err := fetch(ctx)

		return fetchResultMsg{
			at:       time.Now(),
			duration: time.Since(start),
			users:    users,
			err:      err,
		}
	}
}

// returns a tea.Cmd that resets one user
func resetCmd(reset ResetFunc, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := reset(ctx, userID)
		return resetResultMsg{userID: userID, err: err}
	}
}

// REST API response types

type usageListResponse struct {
	Success bool                 `json:"success"`
	Count   int                  `json:"count"`
	Users   map[string]UserUsage `json:"users"`
}

type resetResponse struct {
	Success bool      `json:"success"`
	UserID  string    `json:"userId"`
	Usage   UserUsage `json:"usage"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
