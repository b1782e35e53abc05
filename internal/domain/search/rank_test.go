package search

import (
	"testing"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/record"
)

var articleScorer = Scorer{
	TitleField: "title",
	BodyField:  "content",
	TagsField:  "tags",
}

func TestScorer_Score(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rec   record.Record
		query string
		want  int
	}{
		{
			name: "title match alone",
			rec: record.Record{
				"title":   "WiFi Connection Troubleshooting",
				"content": "Check your adapter settings.",
				"tags":    []string{"network"},
			},
			query: "wifi",
			want:  10,
		},
		{
			name: "tag matches sum",
			rec: record.Record{
				"title":   "Network basics",
				"content": "General guidance.",
				"tags":    []string{"wifi", "wifi-setup", "vpn"},
			},
			query: "wifi",
			want:  4,
		},
		{
			name: "body occurrences counted individually",
			rec: record.Record{
				"title":   "Email setup",
				"content": "Open the VPN client, connect to VPN, verify VPN status.",
				"tags":    []string{},
			},
			query: "vpn",
			want:  3,
		},
		{
			name: "all three combine",
			rec: record.Record{
				"title":   "VPN Setup Guide",
				"content": "Install the VPN client. Restart the VPN service.",
				"tags":    []string{"vpn", "remote"},
			},
			query: "vpn",
			want:  14,
		},
		{
			name: "case insensitive",
			rec: record.Record{
				"title":   "PRINTER Not Responding",
				"content": "Restart the printer spooler.",
				"tags":    []string{"Printer"},
			},
			query: "printer",
			want:  13,
		},
		{
			name: "no match scores zero",
			rec: record.Record{
				"title":   "Password reset",
				"content": "Use the self-service portal.",
				"tags":    []string{"security"},
			},
			query: "wifi",
			want:  0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := articleScorer.Score(tt.rec, tt.query); got != tt.want {
				t.Errorf("Score(%q) = %d; want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestScorer_Rank_TitleOutranksPassingMention(t *testing.T) {
	t.Parallel()

	recs := []record.Record{
		{
			"id":      "KB-002",
			"title":   "Setting Up Email on Mobile",
			"content": "Works over wifi or cellular data.",
			"tags":    []string{"email", "mobile"},
		},
		{
			"id":      "KB-005",
			"title":   "WiFi Connection Troubleshooting",
			"content": "Forget the network and reconnect.",
			"tags":    []string{"wifi", "network"},
		},
	}

	matches := articleScorer.Rank(recs, "wifi", 0)
	if len(matches) != 2 {
		t.Fatalf("Rank returned %d matches; want 2", len(matches))
	}
	if matches[0].Record.String("id") != "KB-005" {
		t.Errorf("top match = %s; want KB-005 (title match)", matches[0].Record.String("id"))
	}
	if matches[0].Score <= matches[1].Score {
		t.Errorf("scores not descending: %d then %d", matches[0].Score, matches[1].Score)
	}
}

func TestScorer_Rank_ExcludesNonMatches(t *testing.T) {
	t.Parallel()

	recs := []record.Record{
		{"id": "KB-001", "title": "Password Reset", "content": "portal", "tags": []string{"security"}},
		{"id": "KB-005", "title": "WiFi Troubleshooting", "content": "reconnect", "tags": []string{"wifi"}},
	}

	matches := articleScorer.Rank(recs, "wifi", 0)
	if len(matches) != 1 {
		t.Fatalf("Rank returned %d matches; want 1", len(matches))
	}
	if matches[0].Record.String("id") != "KB-005" {
		t.Errorf("match = %s; want KB-005", matches[0].Record.String("id"))
	}
}

func TestScorer_Rank_TiesKeepOriginalOrder(t *testing.T) {
	t.Parallel()

	recs := []record.Record{
		{"id": "KB-003", "title": "VPN guide", "content": "", "tags": []string{}},
		{"id": "KB-001", "title": "VPN basics", "content": "", "tags": []string{}},
		{"id": "KB-002", "title": "VPN advanced", "content": "", "tags": []string{}},
	}

	matches := articleScorer.Rank(recs, "vpn", 0)
	want := []string{"KB-003", "KB-001", "KB-002"}
	for i, id := range want {
		if matches[i].Record.String("id") != id {
			t.Errorf("matches[%d] = %s; want %s (stable order)", i, matches[i].Record.String("id"), id)
		}
	}
}

func TestScorer_Rank_EmptyQueryMatchesEverything(t *testing.T) {
	t.Parallel()

	recs := []record.Record{
		{"id": "KB-001", "title": "a", "content": "", "tags": []string{}},
		{"id": "KB-002", "title": "b", "content": "", "tags": []string{}},
	}

	matches := articleScorer.Rank(recs, "", 0)
	if len(matches) != 2 {
		t.Fatalf("Rank(\"\") returned %d matches; want all records", len(matches))
	}
	// Empty query is a title substring for every record.
	for _, m := range matches {
		if m.Score != 10 {
			t.Errorf("score for %s = %d; want 10", m.Record.String("id"), m.Score)
		}
	}
}

func TestScorer_Rank_LimitTruncatesAfterSorting(t *testing.T) {
	t.Parallel()

	recs := []record.Record{
		{"id": "KB-001", "title": "mentions vpn", "content": "", "tags": []string{}},
		{"id": "KB-002", "title": "other", "content": "vpn", "tags": []string{}},
		{"id": "KB-003", "title": "VPN Setup Guide", "content": "vpn vpn", "tags": []string{"vpn"}},
	}

	one := articleScorer.Rank(recs, "vpn", 1)
	if len(one) != 1 || one[0].Record.String("id") != "KB-003" {
		t.Fatalf("limit=1 top match = %v; want KB-003", one)
	}

	// Raising the limit appends, never reorders the prior prefix.
	two := articleScorer.Rank(recs, "vpn", 2)
	if len(two) != 2 {
		t.Fatalf("limit=2 returned %d matches; want 2", len(two))
	}
	if two[0].Record.String("id") != one[0].Record.String("id") {
		t.Errorf("limit=2 first match differs from limit=1 result")
	}
}

func TestScorer_Rank_DefaultLimit(t *testing.T) {
	t.Parallel()

	recs := make([]record.Record, 8)
	for i := range recs {
		recs[i] = record.Record{"id": "KB-00" + string(rune('1'+i)), "title": "wifi", "content": "", "tags": []string{}}
	}

	matches := articleScorer.Rank(recs, "wifi", 0)
	if len(matches) != DefaultLimit {
		t.Errorf("Rank with limit 0 returned %d matches; want default %d", len(matches), DefaultLimit)
	}
}
