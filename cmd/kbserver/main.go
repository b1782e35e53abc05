// kbserver serves the knowledge-base tools over MCP stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/kb"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/tool"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/sqlite"
	"github.com/matiasleandrokruk/servicedesk/internal/mcpserve"
	"github.com/matiasleandrokruk/servicedesk/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// stdout carries the protocol; diagnostics go to stderr.
	logger := log.New(os.Stderr, "kbserver: ", log.LstdFlags)
	if err := run(logger); err != nil {
		logger.Fatal(err)
	}
}

func run(logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.NewMemoryDB()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	svc := kb.New(db)
	if err := svc.Seed(ctx); err != nil {
		return err
	}

	registry := tool.NewRegistry()
	if err := svc.RegisterTools(registry); err != nil {
		return err
	}

	return mcpserve.New(kb.ServerName, registry, logger).Run(ctx)
}
