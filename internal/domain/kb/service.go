// Package kb provides the knowledge-base service: searchable IT support
// articles with view counts and popularity rankings.
package kb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/record"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/search"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/tool"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/eventbus"
)

// ServerName is the protocol-visible name of this service.
const ServerName = "knowledge-base"

const snippetLength = 200

var categories = []string{"Security", "Network", "Hardware", "Software"}

// Service owns the article store and exposes the knowledge-base tools.
type Service struct {
	store  *record.Store
	scorer search.Scorer
}

func storeConfig() record.Config {
	return record.Config{
		Kind:    "article",
		IDField: "id",
	}
}

// New creates a knowledge-base service backed by db.
func New(db *sql.DB) *Service {
	return NewWithBus(db, nil)
}

// NewWithBus creates a Service whose store publishes change events to bus.
func NewWithBus(db *sql.DB, bus eventbus.EventBus) *Service {
	var store *record.Store
	if bus != nil {
		store = record.NewWithBus(db, storeConfig(), bus)
	} else {
		store = record.New(db, storeConfig())
	}
	return &Service{
		store: store,
		scorer: search.Scorer{
			TitleField: "title",
			BodyField:  "content",
			TagsField:  "tags",
		},
	}
}

// Seed loads the built-in articles. Called once at startup.
func (s *Service) Seed(ctx context.Context) error {
	for _, article := range SeedArticles() {
		if _, err := s.store.Insert(ctx, article); err != nil {
			return fmt.Errorf("seed articles: %w", err)
		}
	}
	return nil
}

// RegisterTools binds the knowledge-base tools into the registry.
func (s *Service) RegisterTools(r *tool.Registry) error {
	tools := []struct {
		desc    tool.Descriptor
		handler tool.Handler
	}{
		{
			desc: tool.Descriptor{
				Name:        "search_knowledge_base",
				Description: "Search documentation by keywords, returns relevant articles",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"query":    {Type: tool.TypeString, Description: "Search query (keywords or phrases)"},
						"category": {Type: tool.TypeString, Description: "Filter by category", Enum: categories},
						"limit":    {Type: tool.TypeInteger, Description: "Maximum number of results to return", Default: search.DefaultLimit},
					},
					FieldOrder: []string{"query", "category", "limit"},
					Required:   []string{"query"},
				},
			},
			handler: s.searchKnowledgeBase,
		},
		{
			desc: tool.Descriptor{
				Name:        "get_article",
				Description: "Retrieve a specific knowledge base article by ID",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"article_id": {Type: tool.TypeString, Description: "The article ID (e.g., KB-001)"},
					},
					FieldOrder: []string{"article_id"},
					Required:   []string{"article_id"},
				},
			},
			handler: s.getArticle,
		},
		{
			desc: tool.Descriptor{
				Name:        "list_articles",
				Description: "List all available articles with optional category filter",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"category": {Type: tool.TypeString, Description: "Filter by category", Enum: categories},
					},
					FieldOrder: []string{"category"},
				},
			},
			handler: s.listArticles,
		},
		{
			desc: tool.Descriptor{
				Name:        "get_popular_articles",
				Description: "Get most viewed or most helpful articles",
				Schema: tool.Schema{
					Fields: map[string]tool.Field{
						"sort_by": {Type: tool.TypeString, Description: "Sort by views or helpful count", Enum: []string{"views", "helpful"}, Default: "views"},
						"limit":   {Type: tool.TypeInteger, Description: "Number of articles to return", Default: search.DefaultLimit},
					},
					FieldOrder: []string{"sort_by", "limit"},
				},
			},
			handler: s.getPopularArticles,
		},
	}

	for _, tl := range tools {
		if err := r.Register(tl.desc, tl.handler); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) searchKnowledgeBase(ctx context.Context, args map[string]any) (any, error) {
	query, _ := args["query"].(string)
	limit, _ := args["limit"].(int)

	// Category is a hard exclusion applied before scoring.
	filters := map[string]string{}
	if category, ok := args["category"].(string); ok && category != "" {
		filters["category"] = category
	}

	articles, err := s.store.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	matches := s.scorer.Rank(articles, query, limit)

	results := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		results = append(results, map[string]any{
			"id":        m.Record.String("id"),
			"title":     m.Record.String("title"),
			"category":  m.Record.String("category"),
			"relevance": m.Score,
			"snippet":   snippet(m.Record.String("content")),
		})
	}

	return map[string]any{
		"query":   query,
		"count":   len(results),
		"results": results,
	}, nil
}

func (s *Service) getArticle(ctx context.Context, args map[string]any) (any, error) {
	articleID, _ := args["article_id"].(string)

	// Reads count as views; callers rely on the counter moving.
	if err := s.store.Increment(ctx, articleID, "views"); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, articleID)
}

func (s *Service) listArticles(ctx context.Context, args map[string]any) (any, error) {
	filters := map[string]string{}
	if category, ok := args["category"].(string); ok && category != "" {
		filters["category"] = category
	}

	articles, err := s.store.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	summaries := make([]map[string]any, 0, len(articles))
	for _, a := range articles {
		summaries = append(summaries, map[string]any{
			"id":       a.String("id"),
			"title":    a.String("title"),
			"category": a.String("category"),
			"tags":     a.Strings("tags"),
			"views":    a.Number("views"),
		})
	}

	return map[string]any{
		"count":    len(summaries),
		"articles": summaries,
	}, nil
}

func (s *Service) getPopularArticles(ctx context.Context, args map[string]any) (any, error) {
	sortBy, _ := args["sort_by"].(string)
	limit, _ := args["limit"].(int)
	if limit <= 0 {
		limit = search.DefaultLimit
	}

	articles, err := s.store.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	field := "views"
	if sortBy == "helpful" {
		field = "helpful_count"
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Number(field) > articles[j].Number(field)
	})

	if len(articles) > limit {
		articles = articles[:limit]
	}

	popular := make([]map[string]any, 0, len(articles))
	for _, a := range articles {
		popular = append(popular, map[string]any{
			"id":            a.String("id"),
			"title":         a.String("title"),
			"category":      a.String("category"),
			"views":         a.Number("views"),
			"helpful_count": a.Number("helpful_count"),
		})
	}

	return map[string]any{
		"sort_by":  sortBy,
		"count":    len(popular),
		"articles": popular,
	}, nil
}

// snippet truncates article content for search result previews.
func snippet(content string) string {
	if len(content) <= snippetLength {
		return content + "..."
	}
	return content[:snippetLength] + "..."
}
