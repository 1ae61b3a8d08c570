// Package jira is a minimal Jira REST client for the due-date sync.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/secondary"
)

const apiPath = "/rest/api/latest"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the Jira server (e.g. "https://jira.example.org").
	BaseURL string
	// User and Password select basic authentication.
	User     string
	Password string
	// Token selects bearer authentication with a personal access token and
	// takes precedence over User/Password.
	Token string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client implements secondary.Tracker against the Jira REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	user       string
	password   string
	logger     *slog.Logger
}

// APIError is a non-2xx response from Jira.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira: %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// NewClient creates a new Jira client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("jira: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("jira: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if config.Token == "" && config.User == "" {
		return nil, fmt.Errorf("jira: either a token or a user is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if config.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: config.Token,
			TokenType:   "Bearer",
		}))
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
	if config.Token == "" {
		c.user, c.password = config.User, config.Password
	}
	return c, nil
}

type issueFields struct {
	Fields struct {
		DueDate *string `json:"duedate"`
	} `json:"fields"`
}

// GetDueDate returns the issue's current due date, or nil when unset.
func (c *Client) GetDueDate(ctx context.Context, issueKey string) (*time.Time, error) {
	body, err := c.doRequest(ctx, http.MethodGet, issuePath(issueKey)+"?fields=duedate", nil)
	if err != nil {
		return nil, err
	}

	var issue issueFields
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("jira: failed to parse issue %s: %w", issueKey, err)
	}
	if issue.Fields.DueDate == nil || *issue.Fields.DueDate == "" {
		return nil, nil
	}

	due, err := time.Parse(models.DateLayout, *issue.Fields.DueDate)
	if err != nil {
		return nil, fmt.Errorf("jira: issue %s has invalid duedate %q: %w", issueKey, *issue.Fields.DueDate, err)
	}
	return &due, nil
}

// SetDueDate sets the issue's due date.
func (c *Client) SetDueDate(ctx context.Context, issueKey string, due time.Time) error {
	payload := map[string]any{
		"fields": map[string]any{"duedate": due.Format(models.DateLayout)},
	}
	if _, err := c.doRequest(ctx, http.MethodPut, issuePath(issueKey), payload); err != nil {
		return err
	}
	c.logger.Debug("set jira due date", "issue", issueKey, "due", due.Format(models.DateLayout))
	return nil
}

// AddComment appends a comment to the issue.
func (c *Client) AddComment(ctx context.Context, issueKey, body string) error {
	_, err := c.doRequest(ctx, http.MethodPost, issuePath(issueKey)+"/comment", map[string]any{"body": body})
	return err
}

func issuePath(issueKey string) string {
	return apiPath + "/issue/" + url.PathEscape(issueKey)
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("jira: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("jira: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jira: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// Ensure Client implements the interface.
var _ secondary.Tracker = (*Client)(nil)
