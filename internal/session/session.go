// Package session performs the authentication actions (login, register,
// logout) and the profile fetch for the navigation bar.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mytodo/internal/service"
)

const (
	// LoginPage is the redirect after signup and the logout fallback.
	LoginPage = "/login_page"

	// HomePage is the login fallback when the server names no redirect.
	HomePage = "/"
)

// Alert texts.
const (
	MsgFieldsRequired     = "All fields are required"
	MsgInvalidCredentials = "Invalid credentials"
	MsgPleaseLogIn        = "Please log in"
	MsgRegisterFailed     = "Registration failed"
)

// Navigator follows a redirect.
type Navigator interface {
	Navigate(path string)
}

// Alerter shows a message to the user.
type Alerter interface {
	Alert(msg string)
}

// ProfileDisplay shows the signed-in user's name and email.
type ProfileDisplay interface {
	ShowProfile(user service.User) error
}

// Warning is the registration form's visible state.
type Warning int

const (
	// WarnNone hides both warnings.
	WarnNone Warning = iota
	// WarnMissingFields shows the "fill in every field" warning.
	WarnMissingFields
	// WarnRejected shows the "registration failed" warning.
	WarnRejected
)

func (w Warning) String() string {
	switch w {
	case WarnMissingFields:
		return "missing fields"
	case WarnRejected:
		return "rejected"
	default:
		return "none"
	}
}

// RegisterForm is the full registration form.
type RegisterForm struct {
	Name     string
	Email    string
	Password string
}

// RegisterResult is what the registration form shows after a submit.
type RegisterResult struct {
	Warning Warning
	Message string // server explanation when Warning is WarnRejected
}

// Gateway performs session actions against the server.
type Gateway struct {
	svc   service.Service
	nav   Navigator
	alert Alerter
	log   *slog.Logger
}

// New creates a Gateway. logger may be nil.
func New(svc service.Service, nav Navigator, alert Alerter, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gateway{svc: svc, nav: nav, alert: alert, log: logger}
}

// Quick posts to the body-less login or register endpoint and follows the
// redirect on success. A failure is only logged.
func (g *Gateway) Quick(ctx context.Context, action service.QuickAction) error {
	res, err := g.svc.QuickAuth(ctx, action)
	if err != nil {
		g.log.Error("quick_auth_failed", "action", action, "error", err)
		return err
	}
	if !res.Success {
		g.log.Debug("quick_auth_rejected", "action", action, "message", res.Message)
		return &service.APIError{Message: res.Message}
	}
	redirect := res.Redirect
	if redirect == "" {
		redirect = HomePage
	}
	g.nav.Navigate(redirect)
	return nil
}

// Register validates and submits the full registration form. On success
// it navigates to the login page.
func (g *Gateway) Register(ctx context.Context, form RegisterForm) (RegisterResult, error) {
	reg := service.Registration{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	}
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return RegisterResult{Warning: WarnMissingFields}, &service.ValidationError{Message: MsgFieldsRequired}
	}

	res, err := g.svc.Signup(ctx, reg)
	if err != nil {
		g.log.Error("signup_failed", "error", err)
		return RegisterResult{Warning: WarnRejected, Message: MsgRegisterFailed}, err
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = MsgRegisterFailed
		}
		g.log.Debug("signup_rejected", "message", msg)
		return RegisterResult{Warning: WarnRejected, Message: msg}, &service.APIError{Message: msg}
	}

	g.nav.Navigate(LoginPage)
	return RegisterResult{Warning: WarnNone}, nil
}

// Login validates and submits credentials. On success it navigates to the
// server's redirect; on rejection it alerts the server's message.
func (g *Gateway) Login(ctx context.Context, email, password string) error {
	creds := service.Credentials{Email: strings.TrimSpace(email), Password: password}
	if creds.Email == "" || creds.Password == "" {
		g.alert.Alert(MsgFieldsRequired)
		return &service.ValidationError{Message: MsgFieldsRequired}
	}

	res, err := g.svc.Login(ctx, creds)
	if err != nil {
		g.log.Error("login_failed", "error", err)
		return err
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = MsgInvalidCredentials
		}
		g.alert.Alert(msg)
		return &service.APIError{Status: http.StatusUnauthorized, Message: msg}
	}

	redirect := res.Redirect
	if redirect == "" {
		redirect = HomePage
	}
	g.nav.Navigate(redirect)
	return nil
}

// Logout ends the session and goes to the login page.
func (g *Gateway) Logout(ctx context.Context) error {
	res, err := g.svc.Logout(ctx)
	if err != nil {
		g.log.Error("logout_failed", "error", err)
		return err
	}
	redirect := res.Redirect
	if redirect == "" {
		redirect = LoginPage
	}
	g.nav.Navigate(redirect)
	return nil
}

// Profile fetches the signed-in user and hands it to display. Without a
// session it alerts and leaves the display untouched.
func (g *Gateway) Profile(ctx context.Context, display ProfileDisplay) error {
	user, err := g.svc.Profile(ctx)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			g.alert.Alert(MsgPleaseLogIn)
			return err
		}
		g.log.Error("profile_fetch_failed", "error", err)
		return err
	}
	return display.ShowProfile(user)
}
