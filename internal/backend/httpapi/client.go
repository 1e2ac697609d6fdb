// Package httpapi implements the service.Service interface against the
// to-do server's JSON endpoints, keeping the session in a cookie jar.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"mytodo/internal/config"
	"mytodo/internal/service"
)

// Endpoint paths.
const (
	pathShowTask   = "/api/show_task"
	pathAddTask    = "/api/add_task"
	pathUpdateTask = "/update-task/"
	pathDeleteTask = "/delete-task"
	pathSignup     = "/signup"
	pathUserLogin  = "/user-login"
	pathLogout     = "/api/logout"
	pathProfile    = "/api/profile"
)

const (
	// RequestIDHeader carries a per-request identifier for server logs.
	RequestIDHeader = "X-Request-ID"

	// LoginPage is where the client goes after logout or signup.
	LoginPage = "/login_page"

	// HomePage is where the client goes after a login that names no redirect.
	HomePage = "/"

	// maxBodySize caps how much of a response is read.
	maxBodySize = 4 << 20
)

// Client implements service.Service over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
	jar  *sessionJar
	log  *slog.Logger
}

// New creates a client for cfg.ServerURL whose session is stored in
// cfg.SessionPath(). When cfg.Token is set every request also carries it
// as a bearer token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	var httpClient *http.Client
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, src)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = cfg.Timeout

	return NewWithHTTPClient(cfg.ServerURL, cfg.SessionPath(), httpClient, cfg.Logger())
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// sessionPath may be empty to keep the session in memory only.
// The client's Jar is replaced by the session jar.
func NewWithHTTPClient(serverURL, sessionPath string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", serverURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", serverURL)
	}

	jar, err := newSessionJar(base, sessionPath)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	httpClient.Jar = jar
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{base: base, http: httpClient, jar: jar, log: logger}, nil
}

// envelope is the union of every response body the server sends.
type envelope struct {
	Success  *bool      `json:"success"`
	Redirect string     `json:"redirect"`
	Message  string     `json:"message"`
	Error    string     `json:"error"`
	Tasks    []wireTask `json:"tasks"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
}

// failed reports an explicit success:false.
func (e *envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

// message returns the server's explanation, preferring "error".
func (e *envelope) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

type wireTask struct {
	ID          taskID `json:"id"`
	Title       string `json:"title"`
	Task        string `json:"task"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// taskID accepts both numeric and string identifiers.
type taskID string

func (id *taskID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = taskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = taskID(n.String())
	return nil
}

// exchange sends one request and decodes the JSON answer whatever the
// status. body may be nil for a request without payload.
func (c *Client) exchange(ctx context.Context, method, path string, body any) (int, *envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.base.String() + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("http_request", "method", method, "path", path, "request_id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, wrapError(err)
	}
	defer resp.Body.Close()

	if err := c.jar.save(); err != nil {
		c.log.Warn("session_save_failed", "error", err)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, wrapError(err)
	}

	c.log.Debug("http_response", "method", method, "path", path,
		"status", resp.StatusCode, "request_id", reqID)

	env := &envelope{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, env, nil
	}
	if err := json.Unmarshal(raw, env); err != nil {
		// A 401 page in HTML still means "no session".
		if resp.StatusCode == http.StatusUnauthorized {
			return resp.StatusCode, env, nil
		}
		return resp.StatusCode, nil, fmt.Errorf("%w from %s %s (status %d): %v",
			service.ErrMalformedResponse, method, path, resp.StatusCode, err)
	}
	return resp.StatusCode, env, nil
}

// call is exchange for endpoints where any non-2xx status or an explicit
// success:false is a failure.
func (c *Client) call(ctx context.Context, method, path string, body any) (*envelope, error) {
	status, env, err := c.exchange(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 || env.failed() {
		return nil, &service.APIError{Status: status, Message: env.message()}
	}
	return env, nil
}

// ListTasks returns the session's tasks in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	env, err := c.call(ctx, http.MethodGet, pathShowTask, nil)
	if err != nil {
		return nil, err
	}

	tasks := make([]service.Task, 0, len(env.Tasks))
	for _, t := range env.Tasks {
		tasks = append(tasks, service.Task{
			ID:          string(t.ID),
			Title:       t.Title,
			Body:        t.Task,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		})
	}
	return tasks, nil
}

// CreateTask adds a task.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) error {
	_, err := c.call(ctx, http.MethodPost, pathAddTask, task)
	return err
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) error {
	_, err := c.call(ctx, http.MethodPatch, pathUpdateTask+url.PathEscape(id), patch)
	return err
}

// DeleteTask removes a task. The server must confirm with success:true.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	env, err := c.call(ctx, http.MethodPost, pathDeleteTask, map[string]string{"task_id": id})
	if err != nil {
		return err
	}
	if env.Success == nil {
		return &service.APIError{Message: env.message()}
	}
	return nil
}

// QuickAuth posts to /api/login or /api/register without a body.
func (c *Client) QuickAuth(ctx context.Context, action service.QuickAction) (service.AuthResult, error) {
	if !action.Valid() {
		return service.AuthResult{}, fmt.Errorf("unknown auth action: %s", action)
	}
	_, env, err := c.exchange(ctx, http.MethodPost, "/api/"+string(action), nil)
	if err != nil {
		return service.AuthResult{}, err
	}
	return authResult(env, ""), nil
}

// Login submits credentials to /user-login.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.AuthResult, error) {
	_, env, err := c.exchange(ctx, http.MethodPost, pathUserLogin, creds)
	if err != nil {
		return service.AuthResult{}, err
	}
	return authResult(env, HomePage), nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, reg service.Registration) (service.AuthResult, error) {
	_, env, err := c.exchange(ctx, http.MethodPost, pathSignup, reg)
	if err != nil {
		return service.AuthResult{}, err
	}
	return authResult(env, LoginPage), nil
}

// Logout ends the session on the server and forgets the local cookie,
// even when the server could not be reached.
func (c *Client) Logout(ctx context.Context) (service.AuthResult, error) {
	_, env, err := c.exchange(ctx, http.MethodPost, pathLogout, nil)
	if clearErr := c.jar.clear(); clearErr != nil {
		c.log.Warn("session_clear_failed", "error", clearErr)
	}
	if err != nil {
		return service.AuthResult{}, err
	}
	return authResult(env, LoginPage), nil
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (service.User, error) {
	env, err := c.call(ctx, http.MethodGet, pathProfile, nil)
	if err != nil {
		return service.User{}, err
	}
	return service.User{Name: env.Name, Email: env.Email}, nil
}

// authResult converts an auth answer. Only an explicit success:true counts.
func authResult(env *envelope, defaultRedirect string) service.AuthResult {
	res := service.AuthResult{
		Success:  env.Success != nil && *env.Success,
		Redirect: env.Redirect,
		Message:  env.message(),
	}
	if res.Success && res.Redirect == "" {
		res.Redirect = defaultRedirect
	}
	return res
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return fmt.Errorf("request timed out: %w", err)
		}
		return fmt.Errorf("server unreachable: %w", urlErr.Err)
	}
	return err
}
