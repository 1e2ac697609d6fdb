// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for server operations.
// All HTTP calls go through this interface; the task list and session
// components never build requests themselves.
type Service interface {
	// ListTasks returns the session's tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask adds a task.
	CreateTask(ctx context.Context, task NewTask) error

	// UpdateTask applies a partial update to the task with the given ID.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) error

	// DeleteTask removes the task with the given ID.
	DeleteTask(ctx context.Context, id string) error

	// QuickAuth posts to a body-less login or register endpoint.
	QuickAuth(ctx context.Context, action QuickAction) (AuthResult, error)

	// Login submits credentials. A rejected login is reported through
	// AuthResult, not as an error.
	Login(ctx context.Context, creds Credentials) (AuthResult, error)

	// Signup registers a new account. A rejected signup is reported
	// through AuthResult, not as an error.
	Signup(ctx context.Context, reg Registration) (AuthResult, error)

	// Logout ends the session.
	Logout(ctx context.Context) (AuthResult, error)

	// Profile returns the signed-in user.
	// Returns an error matching ErrUnauthorized when there is no session.
	Profile(ctx context.Context) (User, error)
}
