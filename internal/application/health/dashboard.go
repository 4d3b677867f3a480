package health

import (
	"encoding/json"
	"fmt"
	"html"
)

// RenderDashboardHTML returns the HTML for GET / — a small status page with
// the same payload as /health/json embedded for inspection.
func RenderDashboardHTML(result CollectResult) string {
	b, _ := json.MarshalIndent(result, "", "  ")

	headline := "All systems operational"
	if result.Status != "ok" {
		headline = "Service degraded"
	}

	depRows := ""
	for name, dep := range result.Dependencies {
		depRows += fmt.Sprintf(
			`<div class="row"><span>%s</span><span class="pill %s">%s</span></div>`,
			html.EscapeString(name), pillClass(dep.Status), html.EscapeString(dep.Status))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>CertLedger · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <style>
    :root { --blue: #4cc9f0; --dark: #1a1a2e; --bg: #16213e; --muted: #a0a0a0; }
    body { background: var(--bg); color: #fff; font-family: Arial, sans-serif; margin: 0; display: flex; align-items: center; justify-content: center; min-height: 100vh; }
    .card { background: var(--dark); border: 1px solid rgba(76,201,240,0.4); border-radius: 16px; padding: 40px; max-width: 640px; width: 100%%; }
    h1 { color: var(--blue); letter-spacing: 1px; margin-top: 0; }
    .row { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid rgba(255,255,255,0.06); font-size: 14px; }
    .pill { padding: 3px 10px; border-radius: 10px; font-size: 11px; font-weight: bold; }
    .ok { background: rgba(76,201,240,0.15); color: var(--blue); }
    .err { background: rgba(239,68,68,0.15); color: #ef4444; }
    pre { background: rgba(0,0,0,0.35); padding: 16px; border-radius: 8px; font-size: 12px; overflow-x: auto; color: var(--muted); }
  </style>
</head>
<body>
  <div class="card">
    <h1>CertLedger API</h1>
    <p>%s</p>
    %s
    <div class="row"><span>uptime</span><span>%ds</span></div>
    <div class="row"><span>requests</span><span>%d (%s%% ok)</span></div>
    <pre>%s</pre>
  </div>
</body>
</html>`,
		html.EscapeString(headline),
		depRows,
		result.Runtime.UptimeSeconds,
		result.Traffic.TotalRequests,
		html.EscapeString(result.Traffic.SuccessRate),
		html.EscapeString(string(b)))
}

func pillClass(status string) string {
	if status == "connected" {
		return "ok"
	}
	return "err"
}
