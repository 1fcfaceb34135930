package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/config"
	"github.com/okuznetsova/newsdesk/internal/counts"
	"github.com/okuznetsova/newsdesk/internal/logging"
	"github.com/okuznetsova/newsdesk/internal/model"
	"github.com/okuznetsova/newsdesk/internal/screens"
	"github.com/okuznetsova/newsdesk/internal/session"
	"github.com/okuznetsova/newsdesk/internal/snapshot"
	"github.com/okuznetsova/newsdesk/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "newsdesk:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := logging.Init(); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Info("starting newsdesk", "api", cfg.API.BaseURL)

	snap, err := snapshot.Open(cfg.SnapshotPath())
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer snap.Close()

	sess := session.New()
	client := api.New(cfg.API.BaseURL, sess, api.WithRateLimit(cfg.API.RequestsPerSecond))

	scr := ui.Screens{
		Pending:    screens.NewPending(client, snap, cfg.UI.NewsPerPage),
		News:       screens.NewNews(client, snap, cfg.UI.NewsPerPage),
		Users:      screens.NewUsers(client, cfg.UI.TablePerPage),
		Categories: screens.NewCategories(client, cfg.UI.TablePerPage),
		Trash:      screens.NewTrash(client, snap, cfg.UI.NewsPerPage),
		Archive:    screens.NewArchive(client, snap, cfg.UI.NewsPerPage),
	}

	poller := counts.NewPoller(client, cfg.CountPollInterval(), nil)
	defer poller.Stop()

	app := ui.NewApp(sess, client, scr, poller)
	program := tea.NewProgram(app, tea.WithAltScreen())

	// The poller exists before the program, so the delivery hook is wired
	// here, once both ends are in hand.
	poller.SetNotify(func(c model.Counts) {
		program.Send(ui.CountsMsg(c))
	})

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
