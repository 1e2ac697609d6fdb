// Package tasklist keeps a rendered task list in step with the server.
//
// A Client owns the shared form inputs and a view. Every successful
// mutation clears the form and re-fetches the whole collection, so the view
// always shows server state, including server-assigned IDs and timestamps.
// A Client is not safe for concurrent use.
package tasklist

import (
	"context"
	"log/slog"
	"strings"

	"mytodo/internal/service"
)

// Alert texts. Validation alerts are also the messages of the returned
// *service.ValidationError.
const (
	MsgTitleAndTaskRequired = "Title and Task are required"
	MsgNothingToUpdate      = "Enter at least one field to update"
	MsgIDRequired           = "Task id is required"

	MsgAddFailed    = "Failed to add task"
	MsgUpdateFailed = "Update failed"
	MsgDeleteFailed = "Delete failed"

	MsgAddServerError    = "Server error while adding task"
	MsgUpdateServerError = "Server error while updating"
	MsgDeleteServerError = "Server error while deleting"
)

// View shows a task list, replacing whatever it showed before.
type View interface {
	Render(tasks []service.Task) error
}

// Alerter shows a message to the user.
type Alerter interface {
	Alert(msg string)
}

// Form holds the shared title, task and description inputs.
type Form struct {
	Title       string
	Task        string
	Description string
}

// Clear empties every input.
func (f *Form) Clear() {
	*f = Form{}
}

func (f Form) trimmed() Form {
	return Form{
		Title:       strings.TrimSpace(f.Title),
		Task:        strings.TrimSpace(f.Task),
		Description: strings.TrimSpace(f.Description),
	}
}

// Client drives the task list screen.
type Client struct {
	svc   service.Service
	view  View
	alert Alerter
	log   *slog.Logger

	// Form is read by Create and Update and cleared after they succeed.
	Form Form
}

// New creates a Client. logger may be nil.
func New(svc service.Service, view View, alert Alerter, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{svc: svc, view: view, alert: alert, log: logger}
}

// Refresh fetches the collection and renders it. On failure the view is
// left as it was and the error is logged and returned.
func (c *Client) Refresh(ctx context.Context) error {
	tasks, err := c.svc.ListTasks(ctx)
	if err != nil {
		c.log.Warn("task_list_refresh_failed", "error", err)
		return err
	}
	if err := c.view.Render(tasks); err != nil {
		c.log.Error("task_list_render_failed", "error", err)
		return err
	}
	return nil
}

// Create submits the form as a new task. Title and task are required.
func (c *Client) Create(ctx context.Context) error {
	f := c.Form.trimmed()
	if f.Title == "" || f.Task == "" {
		return c.reject(MsgTitleAndTaskRequired)
	}

	err := c.svc.CreateTask(ctx, service.NewTask{
		Title:       f.Title,
		Task:        f.Task,
		Description: f.Description,
	})
	if err != nil {
		c.fail("add_task_failed", err, MsgAddFailed, MsgAddServerError)
		return err
	}

	c.log.Debug("task_added", "title", f.Title)
	c.Form.Clear()
	c.refreshAfter(ctx)
	return nil
}

// Update applies the non-empty form inputs to the task id.
func (c *Client) Update(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return c.reject(MsgIDRequired)
	}
	f := c.Form.trimmed()
	patch := service.TaskPatch{Title: f.Title, Task: f.Task, Description: f.Description}
	if patch.IsEmpty() {
		return c.reject(MsgNothingToUpdate)
	}

	if err := c.svc.UpdateTask(ctx, id, patch); err != nil {
		c.fail("update_task_failed", err, MsgUpdateFailed, MsgUpdateServerError)
		return err
	}

	c.log.Debug("task_updated", "id", id)
	c.Form.Clear()
	c.refreshAfter(ctx)
	return nil
}

// Delete removes the task id and re-fetches the list.
func (c *Client) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return c.reject(MsgIDRequired)
	}

	if err := c.svc.DeleteTask(ctx, id); err != nil {
		c.fail("delete_task_failed", err, MsgDeleteFailed, MsgDeleteServerError)
		return err
	}

	c.log.Debug("task_deleted", "id", id)
	c.refreshAfter(ctx)
	return nil
}

// refreshAfter re-renders after a mutation. The mutation already
// succeeded, so a failed refresh is only logged.
func (c *Client) refreshAfter(ctx context.Context) {
	_ = c.Refresh(ctx)
}

func (c *Client) reject(msg string) error {
	c.alert.Alert(msg)
	return &service.ValidationError{Message: msg}
}

// fail alerts the server's message, the server fallback, or the transport
// fallback, depending on what kind of failure err is.
func (c *Client) fail(event string, err error, serverFallback, transportFallback string) {
	msg, ok := service.ServerMessage(err, serverFallback)
	if ok {
		c.log.Debug(event, "error", err)
	} else {
		c.log.Error(event, "error", err)
		msg = transportFallback
	}
	c.alert.Alert(msg)
}
