// Package ticket provides the ticket-database service: CRUD and keyword
// search over support tickets with monotonically allocated identifiers.
package ticket

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/record"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/search"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/tool"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/eventbus"
)

// ServerName is the protocol-visible name of this service.
const ServerName = "ticket-database"

// firstTicketNumber is one past the highest seeded ticket id.
const firstTicketNumber = 1005

var (
	statusValues   = []string{"open", "in_progress", "resolved", "closed"}
	priorityValues = []string{"low", "medium", "high", "critical"}
)

// Service owns the ticket store and the shared id counter.
type Service struct {
	store   *record.Store
	scorer  search.Scorer
	counter atomic.Int64
	now     func() time.Time
}

// New creates a ticket service backed by db.
func New(db *sql.DB) *Service {
	return NewWithOptions(db, nil, time.Now)
}

// NewWithOptions wires an optional event bus and an explicit clock.
func NewWithOptions(db *sql.DB, bus eventbus.EventBus, now func() time.Time) *Service {
	s := &Service{
		scorer: search.Scorer{
			TitleField: "title",
			BodyField:  "description",
		},
		now: now,
	}
	s.counter.Store(firstTicketNumber)

	cfg := record.Config{
		Kind:           "ticket",
		IDField:        "id",
		TimestampField: "updated_at",
		NotesField:     "notes",
		AllocateID:     s.nextID,
	}
	if bus != nil {
		s.store = record.NewWithBus(db, cfg, bus)
	} else {
		s.store = record.New(db, cfg)
	}
	return s
}

// nextID allocates the next ticket identifier. Identifiers are never reused
// within a process lifetime.
func (s *Service) nextID() string {
	return fmt.Sprintf("T-%d", s.counter.Add(1)-1)
}

// Seed loads the built-in tickets. Called once at startup, before any
// allocation, so the seeded ids stay below the counter.
func (s *Service) Seed(ctx context.Context) error {
	for _, t := range SeedTickets() {
		if _, err := s.store.InsertWithID(ctx, t); err != nil {
			return fmt.Errorf("seed tickets: %w", err)
		}
	}
	return nil
}

// RegisterTools binds the ticket tools into the registry.
func (s *Service) RegisterTools(r *tool.Registry) error {
	tools := []struct {
		desc    tool.Descriptor
		handler tool.Handler
	}{
		{
			desc: tool.Descriptor{
				Name:        "get_ticket",
				Description: "Retrieve a specific ticket by ID",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"ticket_id": {Type: tool.TypeString, Description: "The ticket ID (e.g., T-1001)"},
					},
					FieldOrder: []string{"ticket_id"},
					Required:   []string{"ticket_id"},
				},
			},
			handler: s.getTicket,
		},
		{
			desc: tool.Descriptor{
				Name:        "list_tickets",
				Description: "List all tickets with optional filtering",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"status":      {Type: tool.TypeString, Description: "Filter by status: open, in_progress, resolved, closed", Enum: statusValues},
						"priority":    {Type: tool.TypeString, Description: "Filter by priority: low, medium, high, critical", Enum: priorityValues},
						"assigned_to": {Type: tool.TypeString, Description: "Filter by team assignment"},
					},
					FieldOrder: []string{"status", "priority", "assigned_to"},
				},
			},
			handler: s.listTickets,
		},
		{
			desc: tool.Descriptor{
				Name:        "create_ticket",
				Description: "Create a new support ticket",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"title":       {Type: tool.TypeString, Description: "Brief title of the ticket"},
						"description": {Type: tool.TypeString, Description: "Detailed description of the issue"},
						"priority":    {Type: tool.TypeString, Description: "Priority level", Enum: priorityValues},
						"assigned_to": {Type: tool.TypeString, Description: "Team to assign the ticket to", Default: "unassigned"},
					},
					FieldOrder: []string{"title", "description", "priority", "assigned_to"},
					Required:   []string{"title", "description", "priority"},
				},
			},
			handler: s.createTicket,
		},
		{
			desc: tool.Descriptor{
				Name:        "update_ticket",
				Description: "Update an existing ticket's status or details",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"ticket_id":   {Type: tool.TypeString, Description: "The ticket ID to update"},
						"status":      {Type: tool.TypeString, Description: "New status", Enum: statusValues},
						"assigned_to": {Type: tool.TypeString, Description: "Reassign to a different team"},
						"notes":       {Type: tool.TypeString, Description: "Additional notes or updates"},
					},
					FieldOrder: []string{"ticket_id", "status", "assigned_to", "notes"},
					Required:   []string{"ticket_id"},
				},
			},
			handler: s.updateTicket,
		},
		{
			desc: tool.Descriptor{
				Name:        "search_tickets",
				Description: "Search tickets by keywords in title or description",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"query": {Type: tool.TypeString, Description: "Search query (keywords)"},
					},
					FieldOrder: []string{"query"},
					Required:   []string{"query"},
				},
			},
			handler: s.searchTickets,
		},
	}

	for _, tl := range tools {
		if err := r.Register(tl.desc, tl.handler); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) getTicket(ctx context.Context, args map[string]any) (any, error) {
	ticketID, _ := args["ticket_id"].(string)
	return s.store.Get(ctx, ticketID)
}

func (s *Service) listTickets(ctx context.Context, args map[string]any) (any, error) {
	filters := map[string]string{}
	for _, field := range []string{"status", "priority", "assigned_to"} {
		if v, ok := args[field].(string); ok && v != "" {
			filters[field] = v
		}
	}

	tickets, err := s.store.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"count":   len(tickets),
		"tickets": tickets,
	}, nil
}

func (s *Service) createTicket(ctx context.Context, args map[string]any) (any, error) {
	now := s.now().UTC().Format(time.RFC3339)
	rec := record.Record{
		"title":       args["title"],
		"description": args["description"],
		"status":      "open",
		"priority":    args["priority"],
		"assigned_to": args["assigned_to"],
		"created_at":  now,
		"updated_at":  now,
	}

	id, err := s.store.Insert(ctx, rec)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"success": true,
		"ticket":  created,
	}, nil
}

func (s *Service) updateTicket(ctx context.Context, args map[string]any) (any, error) {
	ticketID, _ := args["ticket_id"].(string)

	fields := map[string]any{}
	for _, field := range []string{"status", "assigned_to", "notes"} {
		if v, ok := args[field]; ok {
			fields[field] = v
		}
	}

	updated, err := s.store.Update(ctx, ticketID, fields)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"success": true,
		"ticket":  updated,
	}, nil
}

func (s *Service) searchTickets(ctx context.Context, args map[string]any) (any, error) {
	query, _ := args["query"].(string)

	tickets, err := s.store.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	// Every match comes back: the limit only needs to cover the whole set.
	matches := s.scorer.Rank(tickets, query, len(tickets)+1)

	results := make([]record.Record, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.Record)
	}

	return map[string]any{
		"query":   query,
		"count":   len(results),
		"tickets": results,
	}, nil
}
