// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single to-do entry as returned by the server.
type Task struct {
	ID          string
	Title       string
	Body        string // the "task" field
	Description string
	CreatedAt   string // display-only, server formatted
}

// NewTask is the payload for creating a task.
type NewTask struct {
	Title       string `json:"title"`
	Task        string `json:"task"`
	Description string `json:"description"`
}

// TaskPatch is a partial update. Empty fields are omitted from the request.
type TaskPatch struct {
	Title       string `json:"title,omitempty"`
	Task        string `json:"task,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == "" && p.Task == "" && p.Description == ""
}

// User is the signed-in user's profile.
type User struct {
	Name  string
	Email string
}

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the signup form payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the server's answer to an authentication action.
type AuthResult struct {
	Success  bool
	Redirect string
	Message  string
}

// QuickAction names a body-less authentication endpoint.
type QuickAction string

const (
	QuickLogin    QuickAction = "login"
	QuickRegister QuickAction = "register"
)

// Valid reports whether a is a known quick action.
func (a QuickAction) Valid() bool {
	switch a {
	case QuickLogin, QuickRegister:
		return true
	}
	return false
}
