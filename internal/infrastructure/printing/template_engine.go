package printing

import (
	"bytes"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// TemplateEngine renders HTML templates with locale-aware formatting helpers.
// Templates are parsed once and executed per request with the functions of
// the requested locale.
type TemplateEngine struct {
	base  template.FuncMap
	extra template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds template functions on top of the defaults
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.extra, funcs)
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{
		base: template.FuncMap{
			"formatDate":     formatDate,
			"formatDateTime": formatDateTime,
			"upper":          strings.ToUpper,
			"lower":          strings.ToLower,
			"trim":           strings.TrimSpace,
			"join":           strings.Join,
			"notEmpty":       func(s string) bool { return strings.TrimSpace(s) != "" },
			"add":            func(a, b int) int { return a + b },
		},
		extra: template.FuncMap{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// funcsFor returns the function map bound to a locale
func (e *TemplateEngine) funcsFor(locale string) template.FuncMap {
	tag := ParseLocale(locale)
	p := message.NewPrinter(tag)
	title := cases.Title(tag)

	funcs := make(template.FuncMap, len(e.base)+len(e.extra)+4)
	maps.Copy(funcs, e.base)
	funcs["formatMoney"] = func(currency string, v decimal.Decimal) string {
		return FormatMoney(p, currency, v)
	}
	funcs["formatDecimal"] = func(v decimal.Decimal, places int) string {
		return formatDecimal(p, v, places)
	}
	funcs["formatPercent"] = func(v decimal.Decimal) string {
		return formatDecimal(p, v, 2) + "%"
	}
	funcs["title"] = title.String
	maps.Copy(funcs, e.extra)
	return funcs
}

// RenderString parses content and executes it with data in the given locale
func (e *TemplateEngine) RenderString(name, content, locale string, data any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}

	tmpl, err := template.New(name).Funcs(e.funcsFor(locale)).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// ParseLocale resolves a BCP 47 tag such as "en-US", falling back to English
func ParseLocale(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// FormatMoney renders an amount with two decimals and the locale's grouping,
// prefixed by the upper-cased currency code. Example: "USD 1,234.50".
func FormatMoney(p *message.Printer, currency string, v decimal.Decimal) string {
	amount := formatDecimal(p, v, 2)
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}

func formatDecimal(p *message.Printer, v decimal.Decimal, places int) string {
	f := v.Round(int32(places)).InexactFloat64()
	return p.Sprint(number.Decimal(f, number.Scale(places)))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// statusLabel turns a snake_case status into words
func statusLabel(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}

