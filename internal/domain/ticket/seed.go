package ticket

import "github.com/matiasleandrokruk/servicedesk/internal/domain/record"

// SeedTickets returns the built-in support tickets loaded at startup.
// The id counter continues from 1005, one past the highest seeded id.
func SeedTickets() []record.Record {
	return []record.Record{
		{
			"id":          "T-1001",
			"title":       "Laptop won't boot",
			"description": "My laptop shows a black screen when I press the power button",
			"status":      "open",
			"priority":    "high",
			"assigned_to": "hardware_team",
			"created_at":  "2025-10-05T10:30:00Z",
			"updated_at":  "2025-10-05T10:30:00Z",
		},
		{
			"id":          "T-1002",
			"title":       "Password reset request",
			"description": "I forgot my password and need access to my account",
			"status":      "resolved",
			"priority":    "medium",
			"assigned_to": "security_team",
			"created_at":  "2025-10-04T14:20:00Z",
			"updated_at":  "2025-10-04T15:45:00Z",
		},
		{
			"id":          "T-1003",
			"title":       "WiFi connectivity issues",
			"description": "WiFi keeps disconnecting every 10 minutes in Conference Room B",
			"status":      "in_progress",
			"priority":    "high",
			"assigned_to": "network_team",
			"created_at":  "2025-10-05T09:15:00Z",
			"updated_at":  "2025-10-05T11:30:00Z",
		},
		{
			"id":          "T-1004",
			"title":       "Software installation request",
			"description": "Need Adobe Photoshop installed for design work",
			"status":      "open",
			"priority":    "low",
			"assigned_to": "software_team",
			"created_at":  "2025-10-06T08:00:00Z",
			"updated_at":  "2025-10-06T08:00:00Z",
		},
	}
}
