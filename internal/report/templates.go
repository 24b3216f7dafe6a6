package report

import "html/template"

var page = template.Must(template.New("page").Funcs(funcMap).Parse(tmplPage))

const tmplPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:'JetBrains Mono',monospace,sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;line-height:1.5}
main{padding:16px;max-width:1100px;margin:0 auto}
h1{font-size:16px;font-weight:700;color:#f0f6fc;margin-bottom:4px}
h2{font-size:13px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:16px 0 8px}
.sub{font-size:11px;color:#8b949e;margin-bottom:12px}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 16px;min-width:120px}
.card .val{font-size:22px;font-weight:700;color:#f0f6fc}
.card .lbl{font-size:11px;color:#8b949e;margin-top:2px}
table{width:100%;border-collapse:collapse;font-size:12px;margin-bottom:16px}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-weight:600;font-size:11px;text-transform:uppercase;letter-spacing:.05em}
td{padding:5px 10px;border-bottom:1px solid #21262d;vertical-align:top}
tr:hover td{background:#161b22}
.num{text-align:right;font-variant-numeric:tabular-nums}
.swatch{display:inline-block;width:10px;height:10px;border-radius:2px;margin-right:6px;vertical-align:baseline}
.err{color:#f87171}
.dim{color:#8b949e}
.section{background:#161b22;border:1px solid #30363d;border-radius:6px;margin-bottom:16px;padding:12px;overflow-x:auto}
.flow-empty{color:#8b949e;text-align:center;padding:32px 0}
svg text{font-family:inherit}
.warnings{background:#161b22;border:1px solid #30363d;border-left:3px solid #f59e0b;border-radius:6px;padding:8px 12px;font-size:11px;color:#8b949e}
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<div class="sub">generated {{fmtTime .GeneratedAt}} · view mode: {{.Mode}}</div>

<div class="cards">
  <div class="card"><div class="val">{{.RecordCount}}</div><div class="lbl">invocations</div></div>
  <div class="card"><div class="val">{{.ToolCount}}</div><div class="lbl">tools</div></div>
  <div class="card"><div class="val">{{.UseCaseCount}}</div><div class="lbl">use-cases</div></div>
  <div class="card"><div class="val {{if gt .ErrorRate 0.0}}err{{end}}">{{fmtPct .ErrorRate}}</div><div class="lbl">error rate</div></div>
</div>

<h2>Tool Flow</h2>
<div class="section">
{{if .Sankey.Empty}}
  <div class="flow-empty">no transitions to display</div>
{{else}}
  <svg width="{{.Sankey.Width}}" height="{{.Sankey.Height}}" viewBox="0 0 {{.Sankey.Width}} {{.Sankey.Height}}">
  {{range .Sankey.Ribbons}}
    <path d="{{.Path}}" fill="none" stroke="{{.Color}}" stroke-width="{{.Width}}" stroke-opacity="0.45"><title>{{.Tooltip}}</title></path>
  {{end}}
  {{range .Sankey.Nodes}}
    <rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" rx="2" fill="{{.Color}}"><title>{{.Tooltip}}</title></rect>
    <text x="{{.X}}" y="{{.Y}}" dx="-6" dy="10" text-anchor="end" fill="#8b949e" font-size="10">{{.Label}}</text>
  {{end}}
  </svg>
{{end}}
</div>

<h2>Per-Tool Summary</h2>
<table>
<tr><th>Tool</th><th class="num">Calls</th><th class="num">Errors</th><th class="num">Error rate</th><th class="num">Mean duration</th><th class="num">Mean tokens</th><th class="num">Use-cases</th></tr>
{{$colors := .Graph.ColorMap}}
{{range .Tools}}
<tr>
  <td><span class="swatch" style="background:{{index $colors .ToolName}}"></span>{{.ToolName}}</td>
  <td class="num">{{.Count}}</td>
  <td class="num {{if gt .ErrorCount 0}}err{{end}}">{{.ErrorCount}}</td>
  <td class="num">{{fmtPct .ErrorRate}}</td>
  <td class="num">{{fmtDuration .MeanDuration}}</td>
  <td class="num">{{fmtTokens .MeanTotalTokens}}</td>
  <td class="num">{{.UseCaseCount}}</td>
</tr>
{{end}}
</table>

<h2>Per-Step Breakdown</h2>
<table>
<tr><th>Step</th><th class="num">Calls</th><th>Tools</th><th class="num">Error rate</th><th class="num">Mean duration</th><th class="num">Mean tokens</th><th class="num">s/token</th></tr>
{{range .Steps}}
<tr>
  <td>{{.Step}}</td>
  <td class="num">{{.Count}}</td>
  <td>{{range $i, $t := .ToolCounts}}{{if $i}}, {{end}}{{$t.ToolName}} <span class="dim">({{fmtShare $t.Pct}})</span>{{end}}</td>
  <td class="num">{{fmtPct .ErrorRate}}</td>
  <td class="num">{{fmtDuration .MeanDuration}}</td>
  <td class="num">{{fmtTokens .MeanTokens}}</td>
  <td class="num">{{printf "%.4f" .MeanSecondsPerToken}}</td>
</tr>
{{end}}
</table>

{{if .Warnings}}
<h2>Load Warnings</h2>
<div class="warnings">
{{range .Warnings}}<div>{{.}}</div>{{end}}
</div>
{{end}}
</main>
</body>
</html>
`
