package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"mytodo/internal/config"
	"mytodo/internal/exitcode"
	"mytodo/internal/output"
	"mytodo/internal/service"
	"mytodo/internal/tasklist"
)

func init() {
	Register(&UpdateCmd{})
}

// UpdateCmd implements the update command.
// Only the flags given are sent; the rest of the task is left alone.
type UpdateCmd struct {
	form tasklist.Form
}

// SetForm sets the inputs (for testing).
func (c *UpdateCmd) SetForm(title, task, description string) {
	c.form = tasklist.Form{Title: title, Task: task, Description: description}
}

func (c *UpdateCmd) Name() string      { return "update" }
func (c *UpdateCmd) Aliases() []string { return []string{"edit"} }
func (c *UpdateCmd) Synopsis() string  { return "Change fields of a task and show the updated list" }
func (c *UpdateCmd) Usage() string {
	return "mytodo update [--title <title>] [--task <task>] [--desc <description>] <id>"
}
func (c *UpdateCmd) NeedsService() bool { return true }

func (c *UpdateCmd) RegisterFlags(fs *flag.FlagSet) {
	registerFormFlags(fs, &c.form)
}

func (c *UpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := singleArg(args, "task id")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	client := tasklist.New(svc, listView(cfg, out), &output.Alerter{W: errOut}, cfg.Logger())
	client.Form = c.form
	return exitcode.For(client.Update(ctx, id))
}
