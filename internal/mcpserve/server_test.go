package mcpserve

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/kb"
	"github.com/matiasleandrokruk/servicedesk/internal/domain/tool"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/sqlite"
)

func newKBServer(t *testing.T) *Server {
	t.Helper()
	db, err := sqlite.NewMemoryDB()
	if err != nil {
		t.Fatalf("sqlite.NewMemoryDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := kb.New(db)
	ctx := context.Background()
	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}

	registry := tool.NewRegistry()
	if err := svc.RegisterTools(registry); err != nil {
		t.Fatalf("RegisterTools returned error: %v", err)
	}
	return New(kb.ServerName, registry, log.New(io.Discard, "", 0))
}

func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.Build().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("result has %d content items; want 1", len(result.Content))
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T; want TextContent", result.Content[0])
	}
	return text.Text
}

func TestServer_ListTools_AdvertisesAllTools(t *testing.T) {
	t.Parallel()

	session := connect(t, newKBServer(t))
	res, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	want := []string{"get_article", "get_popular_articles", "list_articles", "search_knowledge_base"}
	if len(res.Tools) != len(want) {
		t.Fatalf("ListTools returned %d tools; want %d", len(res.Tools), len(want))
	}

	names := make(map[string]bool, len(res.Tools))
	for _, tl := range res.Tools {
		names[tl.Name] = true
		if tl.InputSchema == nil {
			t.Errorf("tool %s advertised without an input schema", tl.Name)
		}
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("tool %s not advertised", name)
		}
	}
}

func TestServer_CallTool_Success(t *testing.T) {
	t.Parallel()

	session := connect(t, newKBServer(t))
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_article",
		Arguments: map[string]any{"article_id": "KB-002"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("CallTool flagged error: %s", textContent(t, result))
	}

	var article map[string]any
	if err := json.Unmarshal([]byte(textContent(t, result)), &article); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if article["title"] != "WiFi Troubleshooting Guide" {
		t.Errorf("title = %v; want the KB-002 article", article["title"])
	}
}

func TestServer_CallTool_DomainErrorIsToolResult(t *testing.T) {
	t.Parallel()

	session := connect(t, newKBServer(t))
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_article",
		Arguments: map[string]any{"article_id": "KB-999"},
	})
	if err != nil {
		t.Fatalf("CallTool failed at protocol level: %v", err)
	}
	if !result.IsError {
		t.Fatal("missing article did not flag an error result")
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(textContent(t, result)), &body); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "KB-999") {
		t.Errorf("error = %q; want message naming KB-999", msg)
	}
}

func TestServer_CallTool_ValidationRejection(t *testing.T) {
	t.Parallel()

	session := connect(t, newKBServer(t))
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "search_knowledge_base",
		Arguments: map[string]any{"category": "Network"},
	})
	if err != nil {
		t.Fatalf("CallTool failed at protocol level: %v", err)
	}
	if !result.IsError {
		t.Fatal("call without required query did not flag an error result")
	}
	if msg := textContent(t, result); !strings.Contains(msg, "query") {
		t.Errorf("error body %q does not name the missing argument", msg)
	}
}
