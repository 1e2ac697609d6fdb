package output

import (
	"bytes"
	"fmt"
	"io"

	"mytodo/internal/service"
)

// TextView renders each task list to a writer as terminal text.
type TextView struct {
	W io.Writer
}

// Render implements tasklist.View.
func (v *TextView) Render(tasks []service.Task) error {
	FormatTasks(v.W, tasks)
	return nil
}

// HTMLView keeps the list container's current content. Every Render
// replaces it completely; a failed render leaves it untouched.
type HTMLView struct {
	content []byte
	renders int
}

// Render implements tasklist.View.
func (v *HTMLView) Render(tasks []service.Task) error {
	var buf bytes.Buffer
	if err := RenderTasksHTML(&buf, tasks); err != nil {
		return err
	}
	v.content = buf.Bytes()
	v.renders++
	return nil
}

// Content returns the last rendered markup.
func (v *HTMLView) Content() string { return string(v.content) }

// Renders returns how many times the content was replaced.
func (v *HTMLView) Renders() int { return v.renders }

// WriteTo copies the current content to w.
func (v *HTMLView) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(v.content)
	return int64(n), err
}

// Alerter shows alerts as "error: <message>" lines.
type Alerter struct {
	W io.Writer
}

// Alert implements the alert hook of the task list and session components.
func (a *Alerter) Alert(msg string) {
	fmt.Fprintf(a.W, "error: %s\n", msg)
}

// Navigator reports redirects instead of following them.
// Quiet suppresses the output but still records the target.
type Navigator struct {
	W     io.Writer
	Quiet bool

	// Last is the most recent navigation target.
	Last string
}

// Navigate implements session.Navigator.
func (n *Navigator) Navigate(path string) {
	n.Last = path
	if !n.Quiet {
		fmt.Fprintf(n.W, "ok (redirect: %s)\n", path)
	}
}

// ProfileView writes the signed-in user as text or HTML.
type ProfileView struct {
	W    io.Writer
	HTML bool
}

// ShowProfile implements session.ProfileDisplay.
func (p *ProfileView) ShowProfile(user service.User) error {
	if p.HTML {
		return RenderProfileHTML(p.W, user)
	}
	FormatProfile(p.W, user)
	return nil
}
