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
	"mytodo/internal/session"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "End the session and remove the stored cookie" }
func (c *LogoutCmd) Usage() string      { return "mytodo logout [common flags]" }
func (c *LogoutCmd) NeedsService() bool { return true }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Check if a session is stored at all
	if !cfg.HasSession() && cfg.Token == "" {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	gw := session.New(svc, navigator(cfg, out), &output.Alerter{W: errOut}, cfg.Logger())
	err := gw.Logout(ctx)

	// The local session goes away even when the server was not reached.
	if rmErr := cfg.RemoveSession(); rmErr != nil {
		cfg.Logger().Warn("session_remove_failed", "error", rmErr)
	}
	if err != nil {
		return backendError(errOut, err)
	}
	return exitcode.Success
}
