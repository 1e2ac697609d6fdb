// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"mytodo/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.RWMutex
	tasks    []service.Task
	nextID   int
	user     *service.User // nil when logged out
	password string

	// Calls counts requests per operation name ("ListTasks", "CreateTask", ...).
	Calls map[string]int

	// LastPatch is the most recent UpdateTask payload.
	LastPatch service.TaskPatch

	// LastCreate is the most recent CreateTask payload.
	LastCreate service.NewTask

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	QuickAuthErr  error
	LoginErr      error
	SignupErr     error
	LogoutErr     error
	ProfileErr    error

	// SignupResult overrides the signup answer when set.
	SignupResult *service.AuthResult
}

// NewFakeService creates a new FakeService with no tasks and no session.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		Calls:  make(map[string]int),
	}
}

// SignIn makes the fake behave as if user had logged in with password.
func (f *FakeService) SignIn(name, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = &service.User{Name: name, Email: email}
	f.password = password
}

// AddTask stores a task and returns its ID.
func (f *FakeService) AddTask(title, body, description string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(title, body, description)
}

func (f *FakeService) addLocked(title, body, description string) string {
	id := strconv.Itoa(f.nextID)
	f.nextID++
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       title,
		Body:        body,
		Description: description,
		CreatedAt:   "Fri, 02 Jan 2026 15:04:05 GMT",
	})
	return id
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// TotalCalls returns the number of service calls made.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.Calls {
		n += c
	}
	return n
}

func (f *FakeService) count(op string) {
	f.Calls[op]++
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.NewTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreateTask")
	f.LastCreate = task
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.addLocked(task.Title, task.Task, task.Description)
	return nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("UpdateTask")
	f.LastPatch = patch
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if patch.Title != "" {
			f.tasks[i].Title = patch.Title
		}
		if patch.Task != "" {
			f.tasks[i].Body = patch.Task
		}
		if patch.Description != "" {
			f.tasks[i].Description = patch.Description
		}
		return nil
	}
	return &service.APIError{Status: http.StatusNotFound, Message: "Task not found"}
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &service.APIError{}
}

// QuickAuth implements service.Service.
func (f *FakeService) QuickAuth(ctx context.Context, action service.QuickAction) (service.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("QuickAuth")
	if f.QuickAuthErr != nil {
		return service.AuthResult{}, f.QuickAuthErr
	}
	redirect := "/login_page"
	if action == service.QuickRegister {
		redirect = "/register_page"
	}
	return service.AuthResult{Success: true, Redirect: redirect}, nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (service.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Login")
	if f.LoginErr != nil {
		return service.AuthResult{}, f.LoginErr
	}
	if f.user == nil || f.user.Email != creds.Email || f.password != creds.Password {
		return service.AuthResult{Message: "Invalid credentials"}, nil
	}
	return service.AuthResult{Success: true, Redirect: "/"}, nil
}

// Signup implements service.Service.
func (f *FakeService) Signup(ctx context.Context, reg service.Registration) (service.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Signup")
	if f.SignupErr != nil {
		return service.AuthResult{}, f.SignupErr
	}
	if f.SignupResult != nil {
		return *f.SignupResult, nil
	}
	return service.AuthResult{Success: true, Redirect: "/login_page"}, nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) (service.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Logout")
	f.user = nil
	if f.LogoutErr != nil {
		return service.AuthResult{}, f.LogoutErr
	}
	return service.AuthResult{Success: true, Redirect: "/login_page"}, nil
}

// Profile implements service.Service.
func (f *FakeService) Profile(ctx context.Context) (service.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Profile")
	if f.ProfileErr != nil {
		return service.User{}, f.ProfileErr
	}
	if f.user == nil {
		return service.User{}, &service.APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
	}
	return *f.user, nil
}
