// deskgate serves all three tool services over HTTP, with Prometheus
// metrics and change-event logging.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matiasleandrokruk/servicedesk/internal/api"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/kb"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/monitor"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/record"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/ticket"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/tool"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/config"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/eventbus"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/metrics"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/sqlite"
	"github.com/matiasleandrokruk/servicedesk/internal/server"
	"github.com/matiasleandrokruk/servicedesk/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	logger := log.New(os.Stderr, "deskgate: ", log.LstdFlags)
	if err := run(logger); err != nil {
		logger.Fatal(err)
	}
}

func run(logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	bus := eventbus.New()
	go logChangeEvents(ctx, bus, logger)

	services, err := buildServices(ctx, bus)
	if err != nil {
		return err
	}

	m := metrics.New(cfg.MetricsNamespace)
	router := api.NewRouter(services, m)

	srvConfig := server.DefaultConfig()
	srvConfig.Host = cfg.HTTPHost
	srvConfig.Port = cfg.HTTPPort
	srv := server.New(router, srvConfig, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildServices opens one database per service and registers its tools.
// Each service owns its store; nothing is shared across them.
func buildServices(ctx context.Context, bus eventbus.EventBus) ([]api.Service, error) {
	type seeder interface {
		Seed(ctx context.Context) error
		RegisterTools(r *tool.Registry) error
	}

	build := func(name string, mk func() (seeder, error)) (api.Service, error) {
		svc, err := mk()
		if err != nil {
			return api.Service{}, err
		}
		if err := svc.Seed(ctx); err != nil {
			return api.Service{}, err
		}
		registry := tool.NewRegistry()
		if err := svc.RegisterTools(registry); err != nil {
			return api.Service{}, err
		}
		return api.Service{Name: name, Registry: registry}, nil
	}

	kbService, err := build(kb.ServerName, func() (seeder, error) {
		db, err := sqlite.NewMemoryDB()
		if err != nil {
			return nil, err
		}
		return kb.NewWithBus(db, bus), nil
	})
	if err != nil {
		return nil, err
	}

	monitorService, err := build(monitor.ServerName, func() (seeder, error) {
		db, err := sqlite.NewMemoryDB()
		if err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return monitor.NewWithOptions(db, bus, rng, time.Now), nil
	})
	if err != nil {
		return nil, err
	}

	ticketService, err := build(ticket.ServerName, func() (seeder, error) {
		db, err := sqlite.NewMemoryDB()
		if err != nil {
			return nil, err
		}
		return ticket.NewWithOptions(db, bus, time.Now), nil
	})
	if err != nil {
		return nil, err
	}

	return []api.Service{kbService, monitorService, ticketService}, nil
}

// logChangeEvents consumes record change events for the gateway log.
func logChangeEvents(ctx context.Context, bus eventbus.EventBus, logger *log.Logger) {
	topics := []record.ChangeType{
		record.ChangeTypeCreated,
		record.ChangeTypeUpdated,
		record.ChangeTypeIncremented,
	}
	for _, ct := range topics {
		ch := bus.Subscribe(record.TopicForChangeType(ct))
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case evt := <-ch:
					if ce, ok := evt.Payload.(record.ChangeEvent); ok {
						logger.Printf("%s %s %s", ce.ChangeType, ce.Kind, ce.RecordID)
					}
				}
			}
		}()
	}
}
