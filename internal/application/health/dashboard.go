package health

import (
	"bytes"
	"encoding/json"
	"html/template"
	"sort"
	"strconv"
)

type depRow struct {
	Name   string
	Status string
	PingMs string
	OK     bool
}

type dashboardData struct {
	Service  string
	Headline string
	OK       bool
	Result   CollectResult
	Deps     []depRow
	LastReq  map[string]interface{}
	Snapshot template.JS
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Geo-Build Atlas · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --cyan: #00ffff; --orange: #ff6600; --bg: #05080f; --panel: #0d1422; --muted: #7a8699; }
    * { box-sizing: border-box; }
    body { background: radial-gradient(circle at 50% 30%, #0b2030, var(--bg) 70%); color: #e6edf7; font-family: ui-monospace, Menlo, monospace; margin: 0; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
    .wrap { width: 100%; max-width: 980px; padding: 24px; }
    h1 { font-size: clamp(28px, 5vw, 48px); margin: 0 0 6px; letter-spacing: -1px; color: var(--cyan); }
    h1.bad { color: var(--orange); }
    .sub { color: var(--muted); margin-bottom: 28px; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; }
    .card { background: var(--panel); border: 1px solid rgba(0,255,255,0.12); border-radius: 14px; padding: 22px; }
    .label { text-transform: uppercase; font-size: 11px; letter-spacing: 2px; color: var(--muted); margin-bottom: 14px; }
    .big { font-size: 34px; font-weight: 700; margin-bottom: 10px; }
    .row { display: flex; justify-content: space-between; padding: 6px 0; border-bottom: 1px solid rgba(255,255,255,0.04); font-size: 13px; }
    .row:last-child { border-bottom: none; }
    .ok { color: var(--cyan); }
    .err { color: var(--orange); }
    .foot { margin-top: 18px; display: flex; justify-content: space-between; color: var(--muted); font-size: 12px; }
    a { color: var(--cyan); }
    @media (max-width: 800px) { .grid { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  <div class="wrap">
    <h1 id="headline" class="{{if not .OK}}bad{{end}}">{{.Headline}}</h1>
    <div class="sub">{{.Service}} · globe data service</div>
    <div class="grid">
      <div class="card">
        <div class="label">Traffic</div>
        <div class="big" id="total-req">{{.Result.Traffic.TotalRequests}}</div>
        <div class="row"><span>Successful</span><span id="success-count" class="ok">{{.Result.Traffic.SuccessCount}}</span></div>
        <div class="row"><span>Failed</span><span id="failed-count" class="err">{{.Result.Traffic.FailedCount}}</span></div>
        <div class="row"><span>Success Rate</span><span id="success-rate">{{.Result.Traffic.SuccessRate}}%</span></div>
        <div class="row"><span>Avg Latency</span><span id="avg-time">{{.Result.Traffic.AvgResponseTime}}ms</span></div>
      </div>
      <div class="card">
        <div class="label">Dataset &amp; Runtime</div>
        <div class="big">{{.Result.Dataset.Projects}} sites</div>
        <div class="row"><span>Filter Cache</span><span>{{.Result.Dataset.CacheMode}}</span></div>
        <div class="row"><span>Uptime</span><span id="uptime">{{.Result.Runtime.UptimeSeconds}}s</span></div>
        <div class="row"><span>Heap Used</span><span>{{.Result.Runtime.Memory.HeapUsed}} MB</span></div>
        <div class="row"><span>Goroutines</span><span>{{.Result.Runtime.Goroutines}}</span></div>
        <div class="row"><span>Platform</span><span>{{.Result.Runtime.Platform}}</span></div>
      </div>
      <div class="card">
        <div class="label">Dependencies</div>
        {{range .Deps}}<div class="row"><span>{{.Name}}</span><span class="{{if .OK}}ok{{else}}err{{end}}">{{.Status}} · {{.PingMs}}</span></div>
        {{end}}
      </div>
    </div>
    <div class="foot">
      <span>Last request: {{with .LastReq}}{{index . "method"}} {{index . "path"}}{{else}}-{{end}}</span>
      <span><a href="/health/json">/health/json</a> · <a href="/health/errors">/health/errors</a></span>
    </div>
  </div>
  <script>
    const snapshot = {{.Snapshot}};
    async function refresh() {
      try {
        const d = await (await fetch('/health/json')).json();
        document.getElementById('total-req').innerText = d.traffic.totalRequests;
        document.getElementById('success-count').innerText = d.traffic.successCount;
        document.getElementById('failed-count').innerText = d.traffic.failedCount;
        document.getElementById('success-rate').innerText = d.traffic.successRate + '%';
        document.getElementById('avg-time').innerText = d.traffic.avgResponseTime + 'ms';
        document.getElementById('uptime').innerText = d.runtime.uptimeSeconds + 's';
        const hl = document.getElementById('headline');
        hl.innerText = d.status === 'ok' ? 'All Systems Operational' : 'System Issues Detected';
        hl.className = d.status === 'ok' ? '' : 'bad';
      } catch (e) {}
    }
    if (snapshot.status) setInterval(refresh, 15000);
  </script>
</body>
</html>`))

// RenderDashboardHTML returns the HTML status page for GET /.
func RenderDashboardHTML(result CollectResult) (string, error) {
	data := dashboardData{
		Service:  ServiceName,
		Headline: "All Systems Operational",
		OK:       result.Status == "ok",
		Result:   result,
	}
	if !data.OK {
		data.Headline = "System Issues Detected"
	}
	if m, ok := result.Traffic.LastRequest.(map[string]interface{}); ok {
		data.LastReq = m
	}

	names := make([]string, 0, len(result.Dependencies))
	for name := range result.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dep := result.Dependencies[name]
		row := depRow{Name: name, Status: dep.Status, PingMs: "--", OK: dep.Status == StatusConnected || dep.Status == StatusDisabled}
		if dep.PingMs != nil {
			row.PingMs = strconv.FormatInt(*dep.PingMs, 10) + " ms"
		}
		data.Deps = append(data.Deps, row)
	}

	snap, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	data.Snapshot = template.JS(snap)

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
