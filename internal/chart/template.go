// Copyright Fernando Simich, 2026. All rights reserved.

package chart

import (
	"fmt"
	"html/template"
	"strings"
)

var pageTemplate = template.Must(template.New("gantt").Funcs(template.FuncMap{
	"pctf":   func(v float64) string { return fmt.Sprintf("%.3f%%", v) },
	"indent": func(n int) string { return strings.Repeat("  ", n) },
	"statusClass": func(s Status) string {
		switch s {
		case StatusComplete:
			return "complete"
		case StatusInProgress:
			return "in-progress"
		default:
			return "not-started"
		}
	},
}).Parse(ganttHTML))

const ganttHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; font-family: "Segoe UI", Helvetica, Arial, sans-serif; color: #212529; background: #fff; }
  header { padding: 16px 24px; border-bottom: 1px solid #dee2e6; }
  header h1 { margin: 0; font-size: 20px; }
  header .span { color: #6c757d; font-size: 13px; margin-top: 4px; }
  .legend { padding: 8px 24px; font-size: 12px; color: #495057; }
  .legend span { display: inline-block; margin-right: 16px; }
  .swatch { display: inline-block; width: 10px; height: 10px; margin-right: 4px; border-radius: 2px; }
  .chart { padding: 8px 24px 32px; }
  .row { display: flex; align-items: center; height: 22px; }
  .row:hover { background: #f1f3f5; }
  .label { flex: 0 0 320px; font-size: 12px; white-space: nowrap; overflow: hidden; text-overflow: ellipsis; }
  .lane { flex: 1; position: relative; height: 14px; background: #f8f9fa; border-left: 1px solid #e9ecef; }
  .gridline { position: absolute; top: 0; bottom: 0; width: 1px; background: #e9ecef; }
  .bar { position: absolute; top: 1px; height: 12px; border-radius: 2px; }
  .bar.complete { background: #28a745; }
  .bar.in-progress { background: #ffc107; }
  .bar.not-started { background: #6c757d; }
  .bar.critical { outline: 2px solid #dc3545; outline-offset: 1px; }
  .milestone { position: absolute; top: 0; width: 12px; height: 12px; background: #6f42c1; transform: rotate(45deg); }
  .months { display: flex; margin-left: 320px; position: relative; height: 18px; font-size: 11px; color: #868e96; }
  .months span { position: absolute; transform: translateX(-50%); }
  .resources { padding: 8px 24px 32px; border-top: 1px solid #dee2e6; }
  .resources h2 { font-size: 16px; }
  .res-row { display: flex; align-items: center; height: 20px; font-size: 12px; }
  .res-row .label { flex: 0 0 220px; }
  .res-bar { height: 12px; background: #339af0; border-radius: 2px; }
  .res-cost { margin-left: 6px; color: #495057; }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <div class="span">{{.Span}}</div>
</header>
<div class="legend">
  <span><i class="swatch" style="background:#28a745"></i>Complete</span>
  <span><i class="swatch" style="background:#ffc107"></i>In Progress</span>
  <span><i class="swatch" style="background:#6c757d"></i>Not Started</span>
  <span><i class="swatch" style="background:#6f42c1"></i>Milestone</span>
  <span><i class="swatch" style="outline:2px solid #dc3545"></i>Critical</span>
</div>
<div class="months">
{{- range .Months}}
  <span style="left:{{pctf .LeftPct}}">{{.Label}}</span>
{{- end}}
</div>
<div class="chart">
{{- range .Tasks}}
  <div class="row" title="{{.Name}}&#10;WBS: {{.WBS}}&#10;Duration: {{.Duration}}&#10;Progress: {{printf "%.0f" .Percent}}%&#10;Resources: {{.Resources}}&#10;Predecessors: {{.Predecessors}}">
    <div class="label">{{indent .Indent}}{{.Name}}</div>
    <div class="lane">
      {{- range $.Months}}<i class="gridline" style="left:{{pctf .LeftPct}}"></i>{{end -}}
      {{- if .Milestone}}
      <i class="milestone" style="left:{{pctf .LeftPct}}"></i>
      {{- else}}
      <i class="bar {{statusClass .Status}}{{if .Critical}} critical{{end}}" style="left:{{pctf .LeftPct}};width:{{pctf .WidthPct}}"></i>
      {{- end}}
    </div>
  </div>
{{- end}}
</div>
{{- if .Resources}}
<div class="resources">
  <h2>Resource Costs</h2>
{{- range .Resources}}
  <div class="res-row">
    <div class="label">{{.Name}}{{if .Type}} ({{.Type}}){{end}}</div>
    <div class="res-bar" style="width:{{pctf .WidthPct}}"></div>
    <span class="res-cost">{{printf "%.2f" .Cost}}</span>
  </div>
{{- end}}
</div>
{{- end}}
</body>
</html>
`
