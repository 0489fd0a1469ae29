package main

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/charmbracelet/huh"

	"github.com/sayonika/sayonika-tui/internal/config"
	"github.com/sayonika/sayonika-tui/internal/credential"
	"github.com/sayonika/sayonika-tui/pkg/client"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,19}$`)

func validateUsername(s string) error {
	if !usernameRe.MatchString(s) {
		return fmt.Errorf("3-20 chars: lowercase letters, digits, _ or -")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("at least 8 characters")
	}
	var classes int
	for _, check := range []func(rune) bool{unicode.IsLower, unicode.IsUpper, unicode.IsDigit} {
		if strings.ContainsFunc(s, check) {
			classes++
		}
	}
	if len(s) < 16 && classes < 2 {
		return fmt.Errorf("too weak: mix cases or digits, or go longer")
	}
	return nil
}

func validateEmail(s string) error {
	at := strings.Index(s, "@")
	if at < 1 || !strings.Contains(s[at:], ".") {
		return fmt.Errorf("that does not look like an email address")
	}
	return nil
}

// saveSession stores the token in the keyring and verifies it against the
// API before handing the user to the TUI.
func saveSession(cfg *config.Config, token string) error {
	if err := credential.Set(credential.TokenKey, token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	c := client.New(cfg.APIURL, token)
	me, err := c.GetMe(context.Background())
	if err != nil {
		fmt.Printf("Session saved but verification failed: %v\n", err)
		return nil
	}
	fmt.Printf("Welcome back, @%s!\n\n", me.Login)
	return launchTUI(cfg, c)
}

func runLogin(cfg *config.Config) error {
	var username, password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&username).
				Validate(validateUsername),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(validatePassword),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("login form: %w", err)
	}

	session, err := client.New(cfg.APIURL, "").Login(context.Background(), username, password)
	if err != nil {
		if msg := client.Message(err); msg != "" {
			return fmt.Errorf("login failed: %s", msg)
		}
		return fmt.Errorf("login failed: %w", err)
	}
	return saveSession(cfg, session.Token)
}

func runRegister(cfg *config.Config) error {
	anon := client.New(cfg.APIURL, "")

	var req client.RegisterRequest
	var confirm string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Description("This is permanent, pick wisely").
				Value(&req.Username).
				Validate(func(s string) error {
					if err := validateUsername(s); err != nil {
						return err
					}
					available, err := anon.CheckUsername(context.Background(), s)
					if err != nil {
						// Availability is rechecked server-side on submit.
						return nil
					}
					if !available {
						return fmt.Errorf("@%s is taken", s)
					}
					return nil
				}),
			huh.NewInput().
				Title("Email").
				Value(&req.Email).
				Validate(validateEmail),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&req.Password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("register form: %w", err)
	}
	if confirm != req.Password {
		return fmt.Errorf("passwords do not match")
	}

	session, err := anon.Register(context.Background(), req)
	if err != nil {
		if msg := client.Message(err); msg != "" {
			return fmt.Errorf("registration failed: %s", msg)
		}
		return fmt.Errorf("registration failed: %w", err)
	}
	fmt.Printf("Account created.\n")
	return saveSession(cfg, session.Token)
}

func runResetPassword(cfg *config.Config) error {
	var email string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Account email").
				Value(&email).
				Validate(validateEmail),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("reset form: %w", err)
	}

	if err := client.New(cfg.APIURL, "").RequestPasswordReset(context.Background(), email); err != nil {
		if msg := client.Message(err); msg != "" {
			return fmt.Errorf("reset request failed: %s", msg)
		}
		return fmt.Errorf("reset request failed: %w", err)
	}
	fmt.Println("If that address has an account, a reset link is on its way.")
	return nil
}

func runLogout(cfg *config.Config) error {
	token := readToken()
	if token == "" {
		fmt.Println("Already logged out.")
		return nil
	}
	// Best effort: revoke the session server-side before dropping the key.
	client.New(cfg.APIURL, token).Logout(context.Background()) //nolint:errcheck

	if err := credential.Delete(credential.TokenKey); err != nil {
		return fmt.Errorf("remove session token: %w", err)
	}
	fmt.Println("Logged out. See you around.")
	return nil
}
