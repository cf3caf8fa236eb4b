package report

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/comparison"
	"github.com/simaogato/wealthlog-backend/internal/usecase/stats"
	"github.com/simaogato/wealthlog-backend/internal/usecase/target"
)

const summaryTemplate = `# Profit & Loss {{ .Range.From }} to {{ .Range.To }}

| | Stock | Fund | Total |
|:---|---:|---:|---:|
| Profit/Loss | {{ signed .Stock.ProfitLoss }} | {{ signed .Fund.ProfitLoss }} | {{ signed .Total.ProfitLoss }} |
| Days | {{ .Stock.Days }} | {{ .Fund.Days }} | {{ .Total.Days }} |
| Win rate | {{ pct .Stock.WinRate }} | {{ pct .Fund.WinRate }} | |
| Max drawdown | {{ pct .Stock.MaxDrawdown }} | {{ pct .Fund.MaxDrawdown }} | |
| Start asset | {{ money .Stock.StartAsset }} | {{ money .Fund.StartAsset }} | {{ money .Total.StartAsset }} |
| End asset | {{ money .Stock.EndAsset }} | {{ money .Fund.EndAsset }} | {{ money .Total.EndAsset }} |
| Return | {{ spct .Stock.ReturnRate }} | {{ spct .Fund.ReturnRate }} | {{ spct .Total.ReturnRate }} |
{{- if or .Stock.AnnualizedReturn .Fund.AnnualizedReturn }}
| Annualized | {{ ratio .Stock.AnnualizedReturn }} | {{ ratio .Fund.AnnualizedReturn }} | |
{{- end }}
`

const progressTemplate = `# Targets
{{ if not . }}
No target set.
{{- else }}
| Class | Period | Range | Target | Actual | Progress | Remaining |
|:---|:---|:---|---:|---:|---:|---:|
{{- range . }}
| {{ .Target.Class.Label }} | {{ period .Target.Period }} | {{ .Range.From }} to {{ .Range.To }} | {{ money .Target.TargetAmount }} | {{ signed .ActualProfit }} | {{ pct .Percentage }}{{ if .IsAchieved }} ✓{{ end }} | {{ money .Remaining }} |
{{- end }}
{{- end }}
`

const comparisonTemplate = `# Comparison

| | A: {{ .A.Range.From }} to {{ .A.Range.To }} | B: {{ .B.Range.From }} to {{ .B.Range.To }} | B - A |
|:---|---:|---:|---:|
| Stock profit/loss | {{ signed .A.Stock.ProfitLoss }} | {{ signed .B.Stock.ProfitLoss }} | {{ signed .Delta.StockProfitLoss }} |
| Fund profit/loss | {{ signed .A.Fund.ProfitLoss }} | {{ signed .B.Fund.ProfitLoss }} | {{ signed .Delta.FundProfitLoss }} |
| Total profit/loss | {{ signed .A.Total.ProfitLoss }} | {{ signed .B.Total.ProfitLoss }} | {{ signed .Delta.TotalProfitLoss }} |
| Stock win rate | {{ pct .A.Stock.WinRate }} | {{ pct .B.Stock.WinRate }} | {{ spct .Delta.StockWinRate }} |
| Fund win rate | {{ pct .A.Fund.WinRate }} | {{ pct .B.Fund.WinRate }} | {{ spct .Delta.FundWinRate }} |
| Stock return | {{ spct .A.Stock.ReturnRate }} | {{ spct .B.Stock.ReturnRate }} | {{ spct .Delta.StockReturnRate }} |
| Fund return | {{ spct .A.Fund.ReturnRate }} | {{ spct .B.Fund.ReturnRate }} | {{ spct .Delta.FundReturnRate }} |
| Total return | {{ spct .A.Total.ReturnRate }} | {{ spct .B.Total.ReturnRate }} | {{ spct .Delta.TotalReturnRate }} |
`

const historyTemplate = `# History

| Date | Type | Total asset | Market value | Index | Daily P/L | Notes |
|:---|:---|---:|---:|---:|---:|:---|
{{- range . }}
| {{ .Date }} | {{ .Class.Label }} | {{ money .TotalAsset }} | {{ optmoney .TotalMarketValue }} | {{ optnum .IndexReference }} | {{ signed .ProfitLoss }} | {{ cell .Notes }} |
{{- end }}
`

// Renderer renders reports as markdown, amounts in one currency
type Renderer struct {
	currency string
	tmpl     *template.Template
}

// NewRenderer creates a markdown renderer for currency
func NewRenderer(currency string) *Renderer {
	r := &Renderer{currency: currency}
	funcs := template.FuncMap{
		"money":  func(d decimal.Decimal) string { return FormatMoney(d, r.currency, false) },
		"signed": func(d decimal.Decimal) string { return FormatMoney(d, r.currency, true) },
		"optmoney": func(d *decimal.Decimal) string {
			if d == nil {
				return "--"
			}
			return FormatMoney(*d, r.currency, false)
		},
		"optnum": func(d *decimal.Decimal) string {
			if d == nil {
				return "--"
			}
			return d.StringFixed(2)
		},
		"pct":    func(v float64) string { return FormatPercent(v, false) },
		"spct":   func(v float64) string { return FormatPercent(v, true) },
		"ratio":  func(v float64) string { return FormatPercent(v*100, true) },
		"period": func(p domain.Period) string { return p.Label() },
		"cell": func(s string) string {
			if s == "" {
				return "--"
			}
			return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
		},
	}

	r.tmpl = template.Must(template.New("summary").Funcs(funcs).Parse(summaryTemplate))
	template.Must(r.tmpl.New("progress").Parse(progressTemplate))
	template.Must(r.tmpl.New("comparison").Parse(comparisonTemplate))
	template.Must(r.tmpl.New("history").Parse(historyTemplate))
	return r
}

// Currency returns the ISO code amounts are rendered in
func (r *Renderer) Currency() string {
	return r.currency
}

// Summary renders period stats as a markdown table
func (r *Renderer) Summary(s stats.Summary) (string, error) {
	return r.execute("summary", s)
}

// Progress renders target progress as a markdown table
func (r *Renderer) Progress(p []target.Progress) (string, error) {
	return r.execute("progress", p)
}

// Comparison renders both sides of a comparison and their difference
func (r *Renderer) Comparison(res *comparison.Result) (string, error) {
	return r.execute("comparison", struct {
		A, B  stats.Summary
		Delta comparison.Delta
	}{A: res.A, B: res.B, Delta: res.Delta()})
}

// History renders history rows as a markdown table
func (r *Renderer) History(rows []Row) (string, error) {
	return r.execute("history", rows)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return b.String(), nil
}
