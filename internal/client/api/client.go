package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/client/models"
	"github.com/dmitrijs2005/taskpulse/internal/common"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL, e.g.
// "http://localhost:5000". timeout bounds every single request.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/register", "", credentials{email, password}, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var s models.Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", credentials{email, password}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Refresh exchanges the session's refresh token for a new access token and
// updates s in place. A rotated refresh token replaces the old one.
func (c *Client) Refresh(ctx context.Context, s *models.Session) error {
	if s == nil || s.RefreshToken == "" {
		return ErrNotLoggedIn
	}
	var pair models.Session
	body := map[string]string{"refreshToken": s.RefreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", "", body, &pair); err != nil {
		return err
	}
	s.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		s.RefreshToken = pair.RefreshToken
	}
	return nil
}

// Logout revokes the session on the server and clears s.
func (c *Client) Logout(ctx context.Context, s *models.Session) error {
	if err := c.authorized(ctx, s, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	*s = models.Session{}
	return nil
}

func (c *Client) ListTasks(ctx context.Context, s *models.Session) ([]models.Task, error) {
	var out []models.Task
	if err := c.authorized(ctx, s, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, s *models.Session, in models.NewTask) (*models.Task, error) {
	var out models.Task
	if err := c.authorized(ctx, s, http.MethodPost, "/tasks", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, s *models.Session, id string, patch models.TaskPatch) (*models.Task, error) {
	var out models.Task
	if err := c.authorized(ctx, s, http.MethodPut, "/tasks/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, s *models.Session, id string) error {
	return c.authorized(ctx, s, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// authorized sends a request with the session's access token. On 401 it
// refreshes the session once and retries.
func (c *Client) authorized(ctx context.Context, s *models.Session, method, path string, in, out any) error {
	if s == nil || s.AccessToken == "" {
		return ErrNotLoggedIn
	}

	err := c.do(ctx, method, path, s.AccessToken, in, out)
	if !errors.Is(err, ErrUnauthorized) || s.RefreshToken == "" {
		return err
	}

	if rerr := c.Refresh(ctx, s); rerr != nil {
		if errors.Is(rerr, ErrUnauthorized) {
			return ErrUnauthorized
		}
		return rerr
	}
	return c.do(ctx, method, path, s.AccessToken, in, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg messageResponse
		_ = json.Unmarshal(raw, &msg)
		return &Error{StatusCode: resp.StatusCode, Message: msg.Error}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
