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
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `mytodo` (no args) and `mytodo list`.
type ListCmd struct {
	html bool
}

// SetHTML selects HTML output (for testing).
func (c *ListCmd) SetHTML(html bool) {
	c.html = html
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "mytodo list [--html]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.html, "html", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	alert := &output.Alerter{W: errOut}

	if c.html {
		view := &output.HTMLView{}
		if err := tasklist.New(svc, view, alert, cfg.Logger()).Refresh(ctx); err != nil {
			return backendError(errOut, err)
		}
		if _, err := view.WriteTo(out); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	}

	// An empty list still prints its placeholder, unless quiet.
	if err := tasklist.New(svc, listView(cfg, out), alert, cfg.Logger()).Refresh(ctx); err != nil {
		return backendError(errOut, err)
	}
	return exitcode.Success
}
