package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"mytodo/internal/config"
	"mytodo/internal/exitcode"
	"mytodo/internal/output"
	"mytodo/internal/service"
	"mytodo/internal/session"
)

func init() {
	Register(&ProfileCmd{})
}

// ProfileCmd implements the profile command.
type ProfileCmd struct {
	html bool
}

// SetHTML selects HTML output (for testing).
func (c *ProfileCmd) SetHTML(html bool) {
	c.html = html
}

func (c *ProfileCmd) Name() string       { return "profile" }
func (c *ProfileCmd) Aliases() []string  { return []string{"whoami"} }
func (c *ProfileCmd) Synopsis() string   { return "Show the signed-in user" }
func (c *ProfileCmd) Usage() string      { return "mytodo profile [--html]" }
func (c *ProfileCmd) NeedsService() bool { return true }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.html, "html", false, "")
}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	gw := session.New(svc, navigator(cfg, out), &output.Alerter{W: errOut}, cfg.Logger())
	display := &output.ProfileView{W: out, HTML: c.html}

	// A missing session is alerted by the gateway.
	err := gw.Profile(ctx, display)
	if err != nil && !errors.Is(err, service.ErrUnauthorized) {
		return backendError(errOut, err)
	}
	return exitcode.For(err)
}
