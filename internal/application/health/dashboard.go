package health

import (
	"fmt"
	"strings"
)

// RenderDashboardHTML returns the HTML status page for GET /.
func RenderDashboardHTML(health CollectResult) string {
	statusLabel := "All systems operational"
	statusColor := "#0a7d4f"
	if health.Status != "ok" {
		statusLabel = "Service degraded"
		statusColor = "#b4232a"
	}

	depRows := &strings.Builder{}
	for _, name := range []string{"database", "redis"} {
		dep, ok := health.Dependencies[name]
		if !ok {
			continue
		}
		ping := "-"
		if dep.PingMs != nil {
			ping = fmt.Sprintf("%v ms", derefPing(dep.PingMs))
		}
		fmt.Fprintf(depRows,
			`<tr><td>%s</td><td class="dep-%s">%s</td><td>%s</td></tr>`,
			name, dep.Status, dep.Status, ping)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Katmarket · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    body { background: #f6f7f9; color: #1c2430; font-family: system-ui, sans-serif; margin: 0; padding: 40px 20px; }
    .card { max-width: 720px; margin: 0 auto; background: #fff; border: 1px solid #e3e6ea; border-radius: 12px; padding: 32px; }
    h1 { margin: 0 0 6px; font-size: 28px; color: %s; }
    .muted { color: #64748b; font-size: 14px; margin-bottom: 24px; }
    table { width: 100%%; border-collapse: collapse; font-size: 14px; }
    td, th { text-align: left; padding: 8px 6px; border-bottom: 1px solid #eef0f3; }
    .dep-connected { color: #0a7d4f; font-weight: 600; }
    .dep-error, .dep-disconnected { color: #b4232a; font-weight: 600; }
  </style>
</head>
<body>
  <div class="card">
    <h1>%s</h1>
    <div class="muted">katmarket-api · uptime %ds · %s · %s</div>
    <table>
      <tr><th>Dependency</th><th>Status</th><th>Ping</th></tr>
      %s
    </table>
    <table style="margin-top:18px">
      <tr><th>Requests</th><th>Success</th><th>Failed</th><th>Success rate</th><th>Avg response</th></tr>
      <tr><td>%d</td><td>%d</td><td>%d</td><td>%s%%</td><td>%v ms</td></tr>
    </table>
  </div>
</body>
</html>`,
		statusColor, statusLabel,
		health.Runtime.UptimeSeconds, health.Runtime.Platform, health.Runtime.GoVersion,
		depRows.String(),
		health.Traffic.TotalRequests, health.Traffic.SuccessCount, health.Traffic.FailedCount,
		health.Traffic.SuccessRate, health.Traffic.AvgResponseTime)
}

func derefPing(v interface{}) interface{} {
	if p, ok := v.(*int64); ok && p != nil {
		return *p
	}
	return v
}
