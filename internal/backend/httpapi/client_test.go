package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mytodo/internal/config"
	"mytodo/internal/service"
	"mytodo/internal/testutil"
)

func newTestClient(t *testing.T, srv *testutil.FakeServer, sessionPath string) *Client {
	t.Helper()
	c, err := NewWithHTTPClient(srv.URL, sessionPath, nil, nil)
	require.NoError(t, err)
	return c
}

func loggedIn(t *testing.T, srv *testutil.FakeServer, sessionPath string) *Client {
	t.Helper()
	srv.AddUser("Ada", "ada@example.com", "pw")
	c := newTestClient(t, srv, sessionPath)
	res, err := c.Login(context.Background(), service.Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	require.True(t, res.Success)
	return c
}

func TestNewWithHTTPClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com", "localhost:5000", "http://", "://bad"} {
		_, err := NewWithHTTPClient(raw, "", nil, nil)
		assert.Error(t, err, raw)
	}
}

func TestLogin_SetsSessionAndRedirects(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddUser("Ada", "ada@example.com", "pw")
	c := newTestClient(t, srv, "")

	res, err := c.Login(context.Background(), service.Credentials{Email: "ada@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, service.AuthResult{Success: true, Redirect: "/"}, res)
	assert.Equal(t, 1, srv.SessionCount())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddUser("Ada", "ada@example.com", "pw")
	c := newTestClient(t, srv, "")

	res, err := c.Login(context.Background(), service.Credentials{Email: "ada@example.com", Password: "nope"})

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid credentials", res.Message)
	assert.Zero(t, srv.SessionCount())
}

func TestListTasks_WithoutSession(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, "")

	_, err := c.ListTasks(context.Background())

	assert.ErrorIs(t, err, service.ErrUnauthorized)
	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Unauthorized", apiErr.Message)
}

func TestCreateAndList(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")
	ctx := context.Background()

	require.NoError(t, c.CreateTask(ctx, service.NewTask{Title: "Buy milk", Task: "2L"}))
	require.NoError(t, c.CreateTask(ctx, service.NewTask{Title: "Call Bob", Task: "dinner", Description: "evening"}))

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.Task{
		{ID: "1", Title: "Buy milk", Body: "2L", CreatedAt: "Fri, 02 Jan 2026 15:04:05 GMT"},
		{ID: "2", Title: "Call Bob", Body: "dinner", Description: "evening", CreatedAt: "Fri, 02 Jan 2026 15:04:05 GMT"},
	}, tasks)
}

func TestListTasks_Empty(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestCreateTask_ServerRejection(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")

	err := c.CreateTask(context.Background(), service.NewTask{Title: "only title"})

	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Title and task are required", apiErr.Message)
}

func TestUpdateTask_PartialPayload(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")
	ctx := context.Background()
	id := srv.AddTask("ada@example.com", "Old", "body", "desc")
	require.Equal(t, 1, id)

	require.NoError(t, c.UpdateTask(ctx, "1", service.TaskPatch{Title: "New"}))

	reqs := srv.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, http.MethodPatch, last.Method)
	assert.Equal(t, "/update-task/1", last.Path)
	assert.JSONEq(t, `{"title":"New"}`, last.Body)

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "New", tasks[0].Title)
	assert.Equal(t, "body", tasks[0].Body)
	assert.Equal(t, "desc", tasks[0].Description)
}

func TestUpdateTask_NotFound(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")

	err := c.UpdateTask(context.Background(), "99", service.TaskPatch{Task: "x"})

	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Task not found", apiErr.Message)
}

func TestDeleteTask(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")
	ctx := context.Background()
	srv.AddTask("ada@example.com", "A", "a", "")
	srv.AddTask("ada@example.com", "B", "b", "")

	require.NoError(t, c.DeleteTask(ctx, "1"))

	reqs := srv.Requests()
	assert.JSONEq(t, `{"task_id":"1"}`, reqs[len(reqs)-1].Body)

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "2", tasks[0].ID)
}

func TestDeleteTask_NotConfirmed(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")

	err := c.DeleteTask(context.Background(), "42")

	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.Status)
}

func TestDeleteTask_MissingSuccessField(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")
	srv.Respond("/delete-task", http.StatusOK, `{}`)

	err := c.DeleteTask(context.Background(), "1")

	assert.True(t, errors.As(err, new(*service.APIError)))
}

func TestMalformedResponse(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")
	srv.Respond("/api/show_task", http.StatusOK, "<html>oops</html>")

	_, err := c.ListTasks(context.Background())

	assert.ErrorIs(t, err, service.ErrMalformedResponse)
}

func TestUnauthorizedHTMLPage(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, "")
	srv.Respond("/api/profile", http.StatusUnauthorized, "<html>login required</html>")

	_, err := c.Profile(context.Background())

	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestServerError(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")
	srv.Respond("/api/add_task", http.StatusInternalServerError, `{"error":"database is locked"}`)

	err := c.CreateTask(context.Background(), service.NewTask{Title: "a", Task: "b"})

	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "database is locked", apiErr.Message)
}

func TestSignup(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, "")
	ctx := context.Background()
	reg := service.Registration{Name: "Ada", Email: "ada@example.com", Password: "pw"}

	res, err := c.Signup(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, service.AuthResult{Success: true, Redirect: LoginPage}, res)

	res, err = c.Signup(ctx, reg)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Email already exists", res.Message)
}

func TestQuickAuth(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, "")
	ctx := context.Background()

	res, err := c.QuickAuth(ctx, service.QuickLogin)
	require.NoError(t, err)
	assert.Equal(t, "/login_page", res.Redirect)

	res, err = c.QuickAuth(ctx, service.QuickRegister)
	require.NoError(t, err)
	assert.Equal(t, "/register_page", res.Redirect)

	for _, r := range srv.Requests() {
		assert.Empty(t, r.Body, "quick auth sends no body")
	}

	_, err = c.QuickAuth(ctx, service.QuickAction("delete-everything"))
	assert.Error(t, err)
	assert.Len(t, srv.Requests(), 2)
}

func TestProfile(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")

	user, err := c.Profile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, service.User{Name: "Ada", Email: "ada@example.com"}, user)
}

func TestSessionSurvivesNewClient(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	path := filepath.Join(t.TempDir(), "session.json")
	loggedIn(t, srv, path)
	srv.AddTask("ada@example.com", "Persisted", "yes", "")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second := newTestClient(t, srv, path)
	tasks, err := second.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Persisted", tasks[0].Title)
}

func TestLogout_ClearsSession(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	path := filepath.Join(t.TempDir(), "session.json")
	c := loggedIn(t, srv, path)
	ctx := context.Background()

	res, err := c.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, LoginPage, res.Redirect)
	assert.Zero(t, srv.SessionCount())
	assert.NoFileExists(t, path)

	_, err = c.ListTasks(ctx)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestLogout_UnreachableStillClearsLocalSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	data, err := json.Marshal([]storedCookie{{Name: testutil.SessionCookie, Value: "abc"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))

	// Nothing listens on port 1.
	c, err := NewWithHTTPClient("http://127.0.0.1:1", path, &http.Client{Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)

	_, err = c.Logout(context.Background())
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestUnreachableServer(t *testing.T) {
	c, err := NewWithHTTPClient("http://127.0.0.1:1", "", &http.Client{Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)

	_, err = c.ListTasks(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server unreachable")
	assert.False(t, errors.As(err, new(*service.APIError)))
}

func TestInvalidSessionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := NewWithHTTPClient("http://127.0.0.1:1", path, nil, nil)
	assert.ErrorContains(t, err, "invalid session file")
}

func TestRequestIDs(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := loggedIn(t, srv, "")
	_, err := c.ListTasks(context.Background())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, r := range srv.Requests() {
		require.NotEmpty(t, r.RequestID)
		assert.False(t, seen[r.RequestID], "request id %s reused", r.RequestID)
		seen[r.RequestID] = true
	}
}

func TestNew_BearerToken(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddUser("Ada", "ada@example.com", "pw")
	srv.AddToken("ada@example.com", "s3cret")
	srv.AddTask("ada@example.com", "Via token", "ok", "")

	cfg := &config.Config{
		Dir:       t.TempDir(),
		ServerURL: srv.URL,
		Token:     "s3cret",
		Timeout:   5 * time.Second,
	}
	c, err := New(context.Background(), cfg)
	require.NoError(t, err)

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Via token", tasks[0].Title)

	reqs := srv.Requests()
	assert.Equal(t, "Bearer s3cret", reqs[len(reqs)-1].Authorization)
}

func TestTaskIDUnmarshal(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{`{"id": 12}`, "12"},
		{`{"id": "abc"}`, "abc"},
		{`{"id": null}`, ""},
	}
	for _, tt := range tests {
		var w wireTask
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &w), tt.raw)
		assert.Equal(t, tt.expected, string(w.ID))
	}

	var w wireTask
	assert.Error(t, json.Unmarshal([]byte(`{"id": true}`), &w))
}
