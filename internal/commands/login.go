package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"mytodo/internal/config"
	"mytodo/internal/exitcode"
	"mytodo/internal/output"
	"mytodo/internal/service"
	"mytodo/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
// With --quick it posts to the body-less login endpoint instead.
type LoginCmd struct {
	email    string
	password string
	quick    bool
}

// SetCredentials sets the form inputs (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

// SetQuick selects the body-less login (for testing).
func (c *LoginCmd) SetQuick(quick bool) {
	c.quick = quick
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in and store the session" }
func (c *LoginCmd) Usage() string {
	return "mytodo login --email <email> [--password <password>] | mytodo login --quick"
}
func (c *LoginCmd) NeedsService() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.BoolVar(&c.quick, "quick", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// The session cookie is stored in the config directory.
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.UserError
	}

	gw := session.New(svc, navigator(cfg, out), &output.Alerter{W: errOut}, cfg.Logger())

	if c.quick {
		if err := gw.Quick(ctx, service.QuickLogin); err != nil {
			return backendError(errOut, err)
		}
		return exitcode.Success
	}

	password := c.password
	if password == "" {
		password = os.Getenv(config.EnvPassword)
	}

	// Login alerts validation and rejection itself; only transport
	// failures are left to report.
	err := gw.Login(ctx, c.email, password)
	if err != nil && !alerted(err) {
		return backendError(errOut, err)
	}
	return exitcode.For(err)
}
