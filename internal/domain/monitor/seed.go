package monitor

import (
	"time"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/record"
)

// SeedSystems returns the monitored infrastructure loaded at startup.
// last_check starts at the seed time and is refreshed by health checks.
func SeedSystems(now time.Time) []record.Record {
	lastCheck := now.UTC().Format(time.RFC3339)
	return []record.Record{
		{
			"name":        "web-server-01",
			"type":        "Web Server",
			"location":    "Data Center A",
			"ip":          "10.0.1.10",
			"status":      "healthy",
			"uptime_days": 45,
			"last_check":  lastCheck,
		},
		{
			"name":        "db-server-01",
			"type":        "Database Server",
			"location":    "Data Center A",
			"ip":          "10.0.1.20",
			"status":      "healthy",
			"uptime_days": 120,
			"last_check":  lastCheck,
		},
		{
			"name":        "file-server-01",
			"type":        "File Server",
			"location":    "Data Center B",
			"ip":          "10.0.2.10",
			"status":      "warning",
			"uptime_days": 15,
			"last_check":  lastCheck,
			"warnings":    []string{"Disk usage at 85%", "Memory usage at 78%"},
		},
		{
			"name":        "vpn-gateway-01",
			"type":        "VPN Gateway",
			"location":    "Data Center A",
			"ip":          "10.0.1.5",
			"status":      "healthy",
			"uptime_days": 60,
			"last_check":  lastCheck,
		},
		{
			"name":        "email-server-01",
			"type":        "Email Server",
			"location":    "Data Center B",
			"ip":          "10.0.2.15",
			"status":      "critical",
			"uptime_days": 0,
			"last_check":  lastCheck,
			"errors":      []string{"Service stopped responding", "High CPU usage 95%"},
		},
	}
}
