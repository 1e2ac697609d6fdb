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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	form tasklist.Form
}

// SetForm sets the inputs (for testing).
func (c *AddCmd) SetForm(title, task, description string) {
	c.form = tasklist.Form{Title: title, Task: task, Description: description}
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task and show the updated list" }
func (c *AddCmd) Usage() string {
	return "mytodo add --title <title> --task <task> [--desc <description>]"
}
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	registerFormFlags(fs, &c.form)
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s (use --title and --task)\n", args[0])
		return exitcode.UserError
	}

	client := tasklist.New(svc, listView(cfg, out), &output.Alerter{W: errOut}, cfg.Logger())
	client.Form = c.form

	// Create alerts on failure itself.
	return exitcode.For(client.Create(ctx))
}

// registerFormFlags binds the shared form inputs to flags.
func registerFormFlags(fs *flag.FlagSet, form *tasklist.Form) {
	fs.StringVar(&form.Title, "title", "", "")
	fs.StringVar(&form.Title, "t", "", "")
	fs.StringVar(&form.Task, "task", "", "")
	fs.StringVar(&form.Task, "b", "", "")
	fs.StringVar(&form.Description, "desc", "", "")
	fs.StringVar(&form.Description, "d", "", "")
}
