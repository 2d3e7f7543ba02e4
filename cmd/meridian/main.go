package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alexanderramin/meridian/internal/cli"
	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/config"
	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/alexanderramin/meridian/internal/service"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; a malformed one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.UsePlainOutput()
	}

	database, err := db.OpenDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	manager := lifecycle.NewManager(settings)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Projects: service.NewProjectService(uow, manager, nil, observers...),
		Tasks:    service.NewTaskService(uow, manager, nil, observers...),
		Tickets:  service.NewTicketService(uow, manager, nil, observers...),
		Imports:  service.NewImportService(uow, manager, nil, observers...),
		Config:   cfg,
	}

	return cli.NewRootCmd(app).Execute()
}
