package output

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/selimozcann/urlrisk/internal/model"
	"github.com/selimozcann/urlrisk/internal/riskcolor"
	"github.com/selimozcann/urlrisk/internal/util"
)

// Record represents one evaluated URL in JSONL and YAML reports. The
// verdict fields are flattened next to the input.
type Record struct {
	Timestamp     string `json:"timestamp" yaml:"timestamp"`
	InputURL      string `json:"input_url" yaml:"input_url"`
	model.Verdict `yaml:",inline"`
}

// Summary contains counters for the report header and console footer.
type Summary struct {
	Total   int
	High    int
	Medium  int
	Low     int
	Errors  int
	Skipped int
}

// ResultView is used by the HTML template with pre-computed fields.
type ResultView struct {
	Index            int
	InputURL         string
	Verdict          model.Verdict
	Color            string
	Advisory         string
	RegisteredDomain string
}

// PageData provides the full context for the HTML report.
type PageData struct {
	Title         string
	GeneratedAt   time.Time
	Params        map[string]string
	OrderedParams []Param
	Summary       Summary
	Results       []ResultView
}

// Param represents a rendered CLI argument/value pair.
type Param struct {
	Key   string
	Value string
}

// BuildRecord pairs an input with its verdict.
func BuildRecord(input string, v model.Verdict) Record {
	ts := ""
	if !v.AnalyzedAt.IsZero() {
		ts = v.AnalyzedAt.UTC().Format(time.RFC3339)
	}
	return Record{Timestamp: ts, InputURL: input, Verdict: v}
}

// Skipped reports whether the record was never evaluated, e.g. because a
// scan was cancelled before reaching it.
func (r Record) Skipped() bool {
	return r.Verdict.AnalyzedAt.IsZero()
}

// Risky reports whether the record scored above the Low tier.
func (r Record) Risky() bool {
	return !r.Skipped() && !r.Verdict.Failed() && r.Verdict.RiskLevel != model.RiskLow
}

// BuildResultView converts a Record into a ResultView for HTML rendering.
func BuildResultView(idx int, rec Record) ResultView {
	v := rec.Verdict
	return ResultView{
		Index:            idx,
		InputURL:         rec.InputURL,
		Verdict:          v,
		Color:            riskcolor.Hex(v.RiskLevel),
		Advisory:         riskcolor.Advisory(v.RiskLevel),
		RegisteredDomain: util.RegisteredDomain(v.DomainInfo.Hostname),
	}
}

// BuildSummary derives tier counters from the records.
func BuildSummary(records []Record) Summary {
	sum := Summary{Total: len(records)}
	for _, rec := range records {
		switch {
		case rec.Skipped():
			sum.Skipped++
		case rec.Verdict.Failed():
			sum.Errors++
		case rec.Verdict.RiskLevel == model.RiskHigh:
			sum.High++
		case rec.Verdict.RiskLevel == model.RiskMedium:
			sum.Medium++
		default:
			sum.Low++
		}
	}
	return sum
}

// WriteYAML writes all records as a single YAML sequence.
func WriteYAML(w io.Writer, records []Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatTime": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"join":       strings.Join,
	"lower":      func(l model.RiskLevel) string { return strings.ToLower(string(l)) },
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { color-scheme: light dark; }
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 24px; background:#fafafa; color:#111; }
header { margin-bottom: 24px; }
h1 { font-size: 26px; margin: 0 0 8px; }
.section { border:1px solid #e5e7eb; border-radius:16px; padding:16px 20px; margin-bottom:18px; background:#fff; box-shadow:0 1px 2px rgba(15,23,42,0.08); }
h2 { font-size:20px; margin:0 0 12px; }
h3 { font-size:16px; margin:12px 0 6px; }
dt { font-weight:600; }
dd { margin:0 0 8px 0; }
.summary-grid { display:grid; gap:12px; grid-template-columns: repeat(auto-fit,minmax(160px,1fr)); }
.summary-card { display:block; padding:12px; border-radius:12px; border:1px solid #cbd5f5; text-decoration:none; color:inherit; position:relative; }
.summary-card[data-active="true"] { border-color:#4f46e5; box-shadow:0 0 0 2px rgba(79,70,229,0.4); }
.summary-card .badge { position:absolute; top:12px; right:12px; padding:2px 10px; border-radius:999px; background:#4f46e5; color:#fff; font-size:12px; }
.meta { color:#6b7280; font-size:12px; }
.result-row { border-top:1px solid #e5e7eb; padding-top:12px; margin-top:12px; }
.result-row:first-of-type { border-top:none; padding-top:0; margin-top:0; }
.risk-bar { height:10px; border-radius:999px; }
.reason-list { list-style:disc; margin:8px 0 8px 20px; }
.badge-inline { display:inline-block; padding:2px 8px; border-radius:999px; color:#fff; font-size:12px; margin-left:6px; }
.table { border-collapse:collapse; font-size:14px; }
.table th, .table td { border-bottom:1px solid #e5e7eb; padding:4px 8px; text-align:left; }
.mono { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; font-size:13px; }
.advisory { padding:8px 12px; border-left:4px solid; border-radius:4px; }
.footer { text-align:center; font-size:12px; color:#6b7280; margin-top:24px; }
@media (prefers-color-scheme: dark) {
        body { background:#0f172a; color:#e2e8f0; }
        .section { background:#1e293b; border-color:#334155; box-shadow:none; }
        .meta { color:#94a3b8; }
}
</style>
<script>
document.addEventListener('DOMContentLoaded', function() {
  const cards = document.querySelectorAll('[data-filter]');
  const rows = document.querySelectorAll('.result-row');
  function apply(filter) {
    cards.forEach(c => c.dataset.active = (c.dataset.filter === filter ? 'true' : 'false'));
    rows.forEach(row => {
      const show = filter === 'all' || row.dataset.level === filter;
      row.style.display = show ? '' : 'none';
    });
  }
  cards.forEach(card => {
    card.addEventListener('click', function (ev) {
      ev.preventDefault();
      apply(card.dataset.filter || 'all');
    });
  });
  apply('all');
});
</script>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p class="meta">Generated at {{formatTime .GeneratedAt}}</p>
</header>
<section id="summary" class="section">
  <h2>Summary</h2>
  <div class="summary-grid">
    <a class="summary-card" href="#results" data-filter="all"><strong>Total URLs</strong><span class="badge">{{.Summary.Total}}</span></a>
    <a class="summary-card" href="#results" data-filter="high"><strong>High Risk</strong><span class="badge">{{.Summary.High}}</span></a>
    <a class="summary-card" href="#results" data-filter="medium"><strong>Medium Risk</strong><span class="badge">{{.Summary.Medium}}</span></a>
    <a class="summary-card" href="#results" data-filter="low"><strong>Low Risk</strong><span class="badge">{{.Summary.Low}}</span></a>
    <a class="summary-card" href="#results" data-filter="error"><strong>Errors</strong><span class="badge">{{.Summary.Errors}}</span></a>
  </div>
</section>
<section id="parameters" class="section">
  <h2>Parameters</h2>
  <dl>
  {{- range .OrderedParams }}
    <dt>{{.Key}}</dt>
    <dd><span class="mono">{{.Value}}</span></dd>
  {{- end }}
  </dl>
</section>
<section id="results" class="section">
  <h2>Results</h2>
  {{range .Results}}
  {{- $v := .Verdict -}}
  {{if $v.Error}}
  <div class="result-row" data-level="error">
    <h3 class="mono">{{.InputURL}}</h3>
    <p class="meta">Error: {{$v.ErrorMessage}}</p>
  </div>
  {{else}}
  <div class="result-row" data-level="{{lower $v.RiskLevel}}">
    <h3 class="mono">{{.InputURL}}<span class="badge-inline" style="background:{{.Color}}">{{$v.RiskLevel}}</span></h3>
    <div class="risk-bar" style="width:{{if gt $v.Score 100}}100{{else}}{{$v.Score}}{{end}}%;background:{{.Color}}"></div>
    <p>Score: <strong>{{$v.Score}}</strong> • Risk Level: <strong style="color:{{.Color}}">{{$v.RiskLevel}}</strong> • Classification: <strong>{{$v.Classification}}</strong></p>
    {{if $v.Reasons}}
    <ul class="reason-list">
      {{range $v.Reasons}}<li>{{.}}</li>{{end}}
    </ul>
    {{end}}
    <table class="table">
      <tr><th>Protocol</th><td class="mono">{{$v.DomainInfo.Protocol}}</td></tr>
      <tr><th>Hostname</th><td class="mono">{{$v.DomainInfo.Hostname}}</td></tr>
      <tr><th>Registered domain</th><td class="mono">{{.RegisteredDomain}}</td></tr>
      <tr><th>Subdomains</th><td>{{$v.DomainInfo.Subdomains}}</td></tr>
      <tr><th>TLD</th><td class="mono">{{$v.DomainInfo.TLD}}</td></tr>
      <tr><th>Length</th><td>{{$v.DomainInfo.URLLength}}</td></tr>
    </table>
    {{if $v.Breakdown}}<p class="meta">Breakdown: {{join $v.Breakdown ", "}}</p>{{end}}
    <p class="advisory" style="border-color:{{.Color}}">{{.Advisory}}</p>
    <p class="meta">Analyzed {{formatTime $v.AnalyzedAt}}</p>
  </div>
  {{end}}
  {{end}}
</section>
<footer class="footer">
  urlrisk report generated at {{formatTime .GeneratedAt}}
</footer>
</body>
</html>
`))

// RenderHTML renders the HTML report using the provided data.
func RenderHTML(w io.Writer, data PageData) error {
	if data.Params != nil {
		keys := make([]string, 0, len(data.Params))
		for k := range data.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make([]Param, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, Param{Key: k, Value: data.Params[k]})
		}
		data.OrderedParams = ordered
	}
	return htmlTemplate.Execute(w, data)
}
