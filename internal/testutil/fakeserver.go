package testutil

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionCookie is the cookie name the fake server issues.
const SessionCookie = "session"

// CreatedAtLayout matches the server's timestamp format.
const CreatedAtLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// RecordedRequest is a request seen by FakeServer.
type RecordedRequest struct {
	Method        string
	Path          string
	Body          string
	RequestID     string
	Authorization string
}

type fakeUser struct {
	id       int
	name     string
	email    string
	password string
}

type fakeTask struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Task        string `json:"task"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	owner       int
}

type cannedResponse struct {
	status int
	body   string
}

// FakeServer is an in-process to-do server speaking the same JSON
// endpoints as the real one. Sessions are cookie based; bearer tokens
// registered with AddToken are accepted too.
type FakeServer struct {
	URL string

	mu       sync.Mutex
	app      *fiber.App
	users    map[string]*fakeUser // email -> user
	sessions map[string]int       // session id -> user id
	tokens   map[string]int       // bearer token -> user id
	tasks    []*fakeTask
	nextUser int
	nextTask int
	canned   map[string]cannedResponse // path -> one-shot response
	requests []RecordedRequest

	// Now stamps created_at on new tasks.
	Now func() time.Time
}

// NewFakeServer starts a FakeServer on a loopback port and stops it when
// the test ends.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()

	s := &FakeServer{
		users:    make(map[string]*fakeUser),
		sessions: make(map[string]int),
		tokens:   make(map[string]int),
		canned:   make(map[string]cannedResponse),
		nextUser: 1,
		nextTask: 1,
		Now: func() time.Time {
			return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
		},
	}

	// Immutable keeps recorded strings valid after the handler returns.
	app := fiber.New(fiber.Config{DisableStartupMessage: true, Immutable: true})
	app.Use(s.record)
	app.Get("/api/show_task", s.showTasks)
	app.Post("/api/add_task", s.addTask)
	app.Patch("/update-task/:id", s.updateTask)
	app.Post("/delete-task", s.deleteTask)
	app.Post("/signup", s.signup)
	app.Post("/user-login", s.userLogin)
	app.Post("/api/login", s.quick("/login_page"))
	app.Post("/api/register", s.quick("/register_page"))
	app.Post("/api/logout", s.logout)
	app.Get("/api/profile", s.profile)
	s.app = app

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	s.URL = "http://" + ln.Addr().String()

	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return s
}

// AddUser registers an account directly.
func (s *FakeServer) AddUser(name, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addUserLocked(name, email, password)
}

func (s *FakeServer) addUserLocked(name, email, password string) *fakeUser {
	u := &fakeUser{id: s.nextUser, name: name, email: email, password: password}
	s.nextUser++
	s.users[email] = u
	return u
}

// AddToken makes token a valid bearer credential for the account email.
func (s *FakeServer) AddToken(email, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		s.tokens[token] = u.id
	}
}

// AddTask stores a task for the account email and returns its ID.
func (s *FakeServer) AddTask(email, title, body, description string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return 0
	}
	return s.addTaskLocked(u.id, title, body, description).ID
}

func (s *FakeServer) addTaskLocked(owner int, title, body, description string) *fakeTask {
	t := &fakeTask{
		ID:          s.nextTask,
		Title:       title,
		Task:        body,
		Description: description,
		CreatedAt:   s.Now().UTC().Format(CreatedAtLayout),
		owner:       owner,
	}
	s.nextTask++
	s.tasks = append(s.tasks, t)
	return t
}

// Respond makes the next request to path answer with status and the raw
// body, bypassing the normal handler.
func (s *FakeServer) Respond(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[path] = cannedResponse{status: status, body: body}
}

// Requests returns every request seen so far.
func (s *FakeServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// SessionCount returns the number of live sessions.
func (s *FakeServer) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *FakeServer) record(c *fiber.Ctx) error {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:        c.Method(),
		Path:          c.Path(),
		Body:          string(c.Body()),
		RequestID:     c.Get("X-Request-ID"),
		Authorization: c.Get(fiber.HeaderAuthorization),
	})
	canned, ok := s.canned[c.Path()]
	if ok {
		delete(s.canned, c.Path())
	}
	s.mu.Unlock()

	if ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(canned.status).SendString(canned.body)
	}
	return c.Next()
}

// currentUser resolves the caller from the session cookie or bearer token.
// Callers hold s.mu.
func (s *FakeServer) currentUser(c *fiber.Ctx) (int, bool) {
	if id, ok := s.sessions[c.Cookies(SessionCookie)]; ok {
		return id, true
	}
	if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		id, ok := s.tokens[strings.TrimPrefix(auth, "Bearer ")]
		return id, ok
	}
	return 0, false
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
}

func (s *FakeServer) showTasks(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	tasks := []*fakeTask{}
	for _, t := range s.tasks {
		if t.owner == uid {
			tasks = append(tasks, t)
		}
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

func (s *FakeServer) addTask(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	var req struct {
		Title       string `json:"title"`
		Task        string `json:"task"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Title == "" || req.Task == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and task are required"})
	}
	t := s.addTaskLocked(uid, req.Title, req.Task, req.Description)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": t.ID})
}

func (s *FakeServer) findTask(uid int, id string) (int, *fakeTask) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return -1, nil
	}
	for i, t := range s.tasks {
		if t.ID == n && t.owner == uid {
			return i, t
		}
	}
	return -1, nil
}

func (s *FakeServer) updateTask(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	_, t := s.findTask(uid, c.Params("id"))
	if t == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Task not found"})
	}
	var patch map[string]string
	if err := json.Unmarshal(c.Body(), &patch); err != nil || len(patch) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Nothing to update"})
	}
	if v, ok := patch["title"]; ok {
		t.Title = v
	}
	if v, ok := patch["task"]; ok {
		t.Task = v
	}
	if v, ok := patch["description"]; ok {
		t.Description = v
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *FakeServer) deleteTask(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	var req struct {
		TaskID any `json:"task_id"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	i, t := s.findTask(uid, fmt.Sprint(req.TaskID))
	if t == nil {
		return c.JSON(fiber.Map{"success": false})
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return c.JSON(fiber.Map{"success": true})
}

func (s *FakeServer) signup(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing fields"})
	}
	if _, exists := s.users[req.Email]; exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
	}
	s.addUserLocked(req.Name, req.Email, req.Password)
	return c.JSON(fiber.Map{"success": true})
}

func (s *FakeServer) userLogin(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	u, ok := s.users[req.Email]
	if !ok || u.password != req.Password {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid credentials"})
	}
	sid := uuid.NewString()
	s.sessions[sid] = u.id
	c.Cookie(&fiber.Cookie{Name: SessionCookie, Value: sid, Path: "/", HTTPOnly: true})
	return c.JSON(fiber.Map{"success": true, "redirect": "/"})
}

func (s *FakeServer) quick(redirect string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "redirect": redirect})
	}
}

func (s *FakeServer) logout(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, c.Cookies(SessionCookie))
	c.ClearCookie(SessionCookie)
	return c.JSON(fiber.Map{"success": true})
}

func (s *FakeServer) profile(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	for _, u := range s.users {
		if u.id == uid {
			return c.JSON(fiber.Map{"name": u.name, "email": u.email})
		}
	}
	return unauthorized(c)
}
