package output

import (
	"html/template"
	"io"

	"mytodo/internal/service"
)

// Controls carry the task identifier in a single data-id attribute.
var taskListTemplate = template.Must(template.New("tasks").Parse(
	`{{- if not . -}}
<p class="todo-empty">No tasks found</p>
{{ else -}}
{{ range . -}}
<div class="todo-item" data-id="{{ .ID }}">
  <small class="todo-created">{{ .CreatedAt }}</small>
  <h4>{{ .Title }}</h4>
  <p>{{ .Body }}</p>
  {{- with .Description }}
  <small class="todo-desc">{{ . }}</small>
  {{- end }}
  <button type="button" class="task-del-btn" data-id="{{ .ID }}">Delete</button>
  <button type="button" class="task-update-btn" data-id="{{ .ID }}">Update</button>
</div>
{{ end -}}
{{ end -}}`))

var navBarTemplate = template.Must(template.New("nav").Parse(
	`<span class="name">{{ .Name }}</span>
<span class="email">{{ .Email }}</span>
`))

// RenderTasksHTML writes the list container's content for tasks.
// All server-supplied text is escaped.
func RenderTasksHTML(w io.Writer, tasks []service.Task) error {
	return taskListTemplate.Execute(w, tasks)
}

// RenderProfileHTML writes the navigation bar's name and email nodes.
func RenderProfileHTML(w io.Writer, user service.User) error {
	return navBarTemplate.Execute(w, user)
}
