package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
)

// Reporter renders a completed analysis as formatted console text.
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(a *domain.Analysis) error {
	tmpl := `
{{upper (metric .Intent.Metric)}} / {{.Intent.Range}} ({{.Intent.Style}})
Generated: {{.Report.GeneratedAt.Format "2006-01-02 15:04:05"}}

{{.Report.Narrative}}
{{.Report.RiskStatement}}
{{.Report.Recommendation}}

Signal: {{.Signal.TrendDirection}} | risk {{.Signal.RiskScore}}/100 ({{.Signal.RiskLevel}})

Drivers:
{{range .Contributions}}  {{.Rank}}. {{metric .Driver}}: {{printf "%+.2f" .DeltaAbsolute}} ({{pct .DeltaPercent}})
{{end}}
Data ({{.Series.Len}} months):
{{range .Series.Points}}  {{.Period.Format "2006-01"}}  revenue={{printf "%.2f" .Revenue}}  orders={{printf "%.0f" .Orders}}  customers={{printf "%.0f" .Customers}}  aov={{printf "%.2f" .AOV}}
{{end}}`

	funcMap := template.FuncMap{
		"upper":  strings.ToUpper,
		"metric": func(m domain.Metric) string { return string(m) },
		"pct":    func(v float64) string { return fmt.Sprintf("%+.1f%%", v*100) },
	}

	t, err := template.New("analysis").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, a)
}
