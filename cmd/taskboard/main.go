package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Vybyranyi/task-management-boards-app/internal/config"
	"github.com/Vybyranyi/task-management-boards-app/internal/dispatch"
	"github.com/Vybyranyi/task-management-boards-app/internal/history"
	"github.com/Vybyranyi/task-management-boards-app/internal/logging"
	"github.com/Vybyranyi/task-management-boards-app/internal/remote"
	"github.com/Vybyranyi/task-management-boards-app/internal/tui"
)

// Usage: taskboard [board-id]
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, logFile, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logFile.Close()

	db, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Fatalf("open history: %v", err)
	}
	defer db.Close()
	if err := history.Migrate(db); err != nil {
		log.Fatalf("migrate history: %v", err)
	}

	client := remote.New(cfg.API.BaseURL,
		remote.WithTimeout(cfg.API.Timeout),
		remote.WithLogger(logger),
	)
	logger.WithField("base_url", client.BaseURL()).Info("starting")

	var initial string
	if len(os.Args) > 1 {
		initial = strings.TrimSpace(os.Args[1])
	}

	app := tui.New(ctx, tui.Options{
		Dispatcher:   dispatch.New(ctx, client, logger),
		Recents:      history.NewRepo(db),
		Logger:       logger,
		HistoryLimit: cfg.History.Limit,
		InitialBoard: initial,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.WithError(err).Error("program exited")
		fmt.Printf("error: %v\n", err)
	}
}
