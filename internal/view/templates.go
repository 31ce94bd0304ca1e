package view

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/better-pagination/better-pagination/internal/pagination"
	"github.com/better-pagination/better-pagination/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
	funcs     template.FuncMap
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CurrentPath string
	Globals     map[string]string
	Data        any
}

// NewEngine parses templates at build-time. Page numbers are formatted for
// locale; an empty or unknown locale formats as English.
func NewEngine(locale string) (*Engine, error) {
	printer := message.NewPrinter(parseLocale(locale))
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"pageNumber": func(n int) string {
			return printer.Sprintf("%d", n)
		},
		"add": func(a, b int) int {
			return a + b
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl, funcs: funcMap}, nil
}

func parseLocale(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}

// Fragment executes a named template into a string.
func (e *Engine) Fragment(name string, data any) (string, error) {
	if e == nil {
		return "", fmt.Errorf("template engine not initialised")
	}
	var sb strings.Builder
	if err := e.templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// TagPair returns the raw body of a paginate tag pair stored under
// templates/tagpairs.
func (e *Engine) TagPair(name string) (string, error) {
	raw, err := fs.ReadFile(web.Templates, "templates/tagpairs/"+name+".html")
	if err != nil {
		return "", fmt.Errorf("view: tag pair %s: %w", name, err)
	}
	return string(raw), nil
}

// ParseVariables executes tag-pair text as a template against the link set.
func (e *Engine) ParseVariables(tagdata string, links pagination.LinkSet) (string, error) {
	if strings.TrimSpace(tagdata) == "" {
		return tagdata, nil
	}
	tpl, err := template.New("tagpair").Funcs(e.funcs).Parse(tagdata)
	if err != nil {
		return "", fmt.Errorf("view: parse tag pair: %w", err)
	}
	var sb strings.Builder
	if err := tpl.Execute(&sb, links); err != nil {
		return "", fmt.Errorf("view: execute tag pair: %w", err)
	}
	return sb.String(), nil
}

// Links renders the full pagination links block.
func (e *Engine) Links(links pagination.LinkSet) (string, error) {
	return e.Fragment("partials/pagination.html", links)
}
