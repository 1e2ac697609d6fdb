// Package output renders tasks and profiles for the terminal and as HTML,
// and provides the CLI side of the view, alert and navigation hooks.
package output

import (
	"fmt"
	"io"
	"strings"

	"mytodo/internal/service"
)

const (
	// EmptyPlaceholder is shown instead of item blocks for an empty list.
	EmptyPlaceholder = "No tasks found"

	// ItemSeparator is the separator line between task blocks.
	ItemSeparator = "------------"
)

// FormatTasks writes the whole task list as terminal text.
// Format per task:
//
//	------------
//	[{ID}] {TITLE}
//	    {BODY}
//	    {DESCRIPTION}       (omitted when empty)
//	    created {CREATED}   (omitted when empty)
func FormatTasks(w io.Writer, tasks []service.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyPlaceholder)
		return
	}
	for _, t := range tasks {
		FormatTask(w, t)
	}
}

// FormatTask writes a single task block.
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintln(w, ItemSeparator)
	fmt.Fprintf(w, "[%s] %s\n", task.ID, normalizeTitle(task.Title))
	fmt.Fprintf(w, "    %s\n", singleLine(task.Body))
	if desc := singleLine(task.Description); desc != "" {
		fmt.Fprintf(w, "    %s\n", desc)
	}
	if task.CreatedAt != "" {
		fmt.Fprintf(w, "    created %s\n", task.CreatedAt)
	}
}

// FormatProfile writes the navigation bar contents as text.
func FormatProfile(w io.Writer, user service.User) {
	fmt.Fprintf(w, "%s <%s>\n", singleLine(user.Name), singleLine(user.Email))
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = singleLine(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// singleLine replaces line breaks and control characters with spaces and
// trims the result, so server text cannot break the layout.
func singleLine(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
