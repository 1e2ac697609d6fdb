package commands

import (
	"context"
	"errors"
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
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
// With --quick it posts to the body-less register endpoint instead.
type RegisterCmd struct {
	form  session.RegisterForm
	quick bool
}

// SetForm sets the form inputs (for testing).
func (c *RegisterCmd) SetForm(name, email, password string) {
	c.form = session.RegisterForm{Name: name, Email: email, Password: password}
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "mytodo register --name <name> --email <email> [--password <password>] | mytodo register --quick"
}
func (c *RegisterCmd) NeedsService() bool { return true }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.form.Name, "name", "", "")
	fs.StringVar(&c.form.Email, "email", "", "")
	fs.StringVar(&c.form.Password, "password", "", "")
	fs.BoolVar(&c.quick, "quick", false, "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	gw := session.New(svc, navigator(cfg, out), &output.Alerter{W: errOut}, cfg.Logger())

	if c.quick {
		if err := gw.Quick(ctx, service.QuickRegister); err != nil {
			return backendError(errOut, err)
		}
		return exitcode.Success
	}

	form := c.form
	if form.Password == "" {
		form.Password = os.Getenv(config.EnvPassword)
	}

	res, err := gw.Register(ctx, form)
	switch res.Warning {
	case session.WarnMissingFields:
		fmt.Fprintln(errOut, "error: name, email and password are required")
	case session.WarnRejected:
		var apiErr *service.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(errOut, "error: registration failed: %s\n", res.Message)
		} else {
			fmt.Fprintf(errOut, "error: registration failed: %v\n", err)
		}
	}
	return exitcode.For(err)
}
