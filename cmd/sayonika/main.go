package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sayonika/sayonika-tui/internal/config"
	"github.com/sayonika/sayonika-tui/internal/credential"
	"github.com/sayonika/sayonika-tui/internal/draft"
	"github.com/sayonika/sayonika-tui/internal/notify"
	"github.com/sayonika/sayonika-tui/internal/tui"
	"github.com/sayonika/sayonika-tui/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// readToken returns the session token using precedence: env var > keyring > empty.
func readToken() string {
	if tok := os.Getenv("SAYONIKA_TOKEN"); tok != "" {
		return strings.TrimSpace(tok)
	}
	tok, err := credential.Get(credential.TokenKey)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(tok)
}

// draftDBPath returns ~/.config/sayonika/drafts.db.
func draftDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "sayonika", "drafts.db"), nil
}

func run() error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("sayonika " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			return runLogin(cfg)
		case "register":
			return runRegister(cfg)
		case "reset-password":
			return runResetPassword(cfg)
		case "logout":
			return runLogout(cfg)
		case "update":
			return runUpdate()
		case "--update-done":
			if len(os.Args) >= 4 {
				printUpdateSuccess(os.Args[2], os.Args[3])
			}
			return nil
		}
	}

	token := readToken()
	if token == "" {
		printGreeting()
		return nil
	}
	c := client.New(cfg.APIURL, token)
	// Only force re-login on actual auth failures (401), not transient errors.
	if _, err := c.GetMe(context.Background()); err != nil {
		if client.IsStatus(err, 401) {
			printGreeting()
			return nil
		}
		// Network/server error: launch the TUI anyway, it retries internally.
	}
	return launchTUI(cfg, c)
}

// launchTUI wires the notification pipeline to a Bubbletea program and
// blocks until the user quits.
func launchTUI(cfg *config.Config, c *client.Client) error {
	store := notify.NewStore()
	engine := notify.NewEngine(c, store)
	poller := notify.NewPoller(engine, time.Duration(cfg.PollIntervalSec)*time.Second)

	dbPath, err := draftDBPath()
	if err != nil {
		return err
	}
	drafts, err := draft.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open draft store: %w", err)
	}
	defer drafts.Close() //nolint:errcheck

	app := tui.NewApp(c, engine, poller, drafts, cfg.PageSize)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Store mutations repaint the badge even while a different view has
	// focus. Send is safe from any goroutine.
	store.Subscribe(func() {
		p.Send(tui.StoreChangedMsg{})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	// The app stops these on quit; repeating is harmless and covers
	// abnormal exits.
	poller.Stop()
	engine.Close()
	return nil
}
