package monitor

import (
	"math/rand"
	"time"

	"github.com/matiasleandrokruk/servicedesk/internal/domain/record"
)

// usageBand holds the inclusive percentage range a metric is drawn from for
// one system status.
type usageBand struct {
	min, max int
}

var metricBands = map[string]struct {
	cpu    usageBand
	memory usageBand
	disk   usageBand
}{
	"healthy":  {cpu: usageBand{20, 50}, memory: usageBand{40, 65}, disk: usageBand{30, 60}},
	"warning":  {cpu: usageBand{60, 80}, memory: usageBand{70, 85}, disk: usageBand{75, 90}},
	"critical": {cpu: usageBand{85, 99}, memory: usageBand{90, 98}, disk: usageBand{90, 99}},
}

func (b usageBand) draw(rng *rand.Rand) int {
	return rng.Intn(b.max-b.min+1) + b.min
}

// generateMetrics simulates a metrics sample for the system, with usage
// levels drawn from bands matching its status.
func generateMetrics(rng *rand.Rand, system record.Record) map[string]any {
	bands, ok := metricBands[system.String("status")]
	if !ok {
		bands = metricBands["critical"]
	}

	cpuUsage := bands.cpu.draw(rng)
	memUsage := bands.memory.draw(rng)
	diskUsage := bands.disk.draw(rng)

	const totalMemGB = 32.0
	const totalDiskGB = 500.0

	return map[string]any{
		"cpu": map[string]any{
			"usage_percent": cpuUsage,
			"cores":         8,
			"load_average":  round2(float64(cpuUsage) / 12.5),
		},
		"memory": map[string]any{
			"usage_percent": memUsage,
			"total_gb":      32,
			"used_gb":       round1(totalMemGB * float64(memUsage) / 100),
			"available_gb":  round1(totalMemGB * float64(100-memUsage) / 100),
		},
		"disk": map[string]any{
			"usage_percent": diskUsage,
			"total_gb":      500,
			"used_gb":       round1(totalDiskGB * float64(diskUsage) / 100),
			"available_gb":  round1(totalDiskGB * float64(100-diskUsage) / 100),
		},
		"network": map[string]any{
			"packets_sent":         rng.Intn(90001) + 10000,
			"packets_received":     rng.Intn(90001) + 10000,
			"bandwidth_usage_mbps": rng.Intn(91) + 10,
			"errors":               rng.Intn(6),
		},
	}
}

// logEntry is one simulated log line.
type logEntry struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// generateLogs simulates recent log entries shaped by the system's status:
// critical systems carry errors, warning systems carry warnings, and every
// system reports routine info lines.
func generateLogs(system record.Record, now time.Time, level string, limit int) []logEntry {
	stamp := func(ago time.Duration) string {
		return now.Add(-ago).UTC().Format(time.RFC3339)
	}

	var logs []logEntry
	switch system.String("status") {
	case "critical":
		logs = append(logs,
			logEntry{Level: "error", Message: "Service stopped responding", Timestamp: stamp(5 * time.Minute)},
			logEntry{Level: "error", Message: "CPU usage exceeded 95%", Timestamp: stamp(10 * time.Minute)},
			logEntry{Level: "warning", Message: "Memory usage high", Timestamp: stamp(15 * time.Minute)},
		)
	case "warning":
		logs = append(logs,
			logEntry{Level: "warning", Message: "Disk usage at 85%", Timestamp: stamp(1 * time.Hour)},
			logEntry{Level: "warning", Message: "Memory usage elevated", Timestamp: stamp(2 * time.Hour)},
		)
	}

	logs = append(logs,
		logEntry{Level: "info", Message: "Health check completed successfully", Timestamp: stamp(5 * time.Minute)},
		logEntry{Level: "info", Message: "Backup completed", Timestamp: stamp(6 * time.Hour)},
		logEntry{Level: "info", Message: "System maintenance scheduled", Timestamp: stamp(24 * time.Hour)},
	)

	if level != "" && level != "all" {
		filtered := logs[:0]
		for _, l := range logs {
			if l.Level == level {
				filtered = append(filtered, l)
			}
		}
		logs = filtered
	}

	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
