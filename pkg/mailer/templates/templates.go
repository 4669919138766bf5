package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Notification is the only layout: a subject line and a localized body.
const Notification = "notification"

// EmailData is what a notification layout can see.
type EmailData struct {
	Subject   string
	Body      string
	Recipient string
	Locale    string

	CompanyName string
	SentAt      time.Time
}

// orDefault is used as {{ .Value | default "Fallback" }}
func orDefault(fallback, value string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func paragraphs(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

var funcs = map[string]any{
	"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
	"default":    orDefault,
	"paragraphs": paragraphs,
}

// both sets are parsed from FS once, on first render
var (
	loadOnce sync.Once
	htmlSet  *htmpl.Template
	textSet  *texttpl.Template
	loadErr  error
)

func load() error {
	loadOnce.Do(func() {
		htmlSet, loadErr = htmpl.New("").Funcs(htmpl.FuncMap(funcs)).ParseFS(FS, "*.html.tmpl")
		if loadErr != nil {
			loadErr = fmt.Errorf("parse html templates: %w", loadErr)
			return
		}
		textSet, loadErr = texttpl.New("").Funcs(texttpl.FuncMap(funcs)).ParseFS(FS, "*.text.tmpl")
		if loadErr != nil {
			loadErr = fmt.Errorf("parse text templates: %w", loadErr)
		}
	})
	return loadErr
}

func execute(name string, html bool, data EmailData) (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	var err error
	if html {
		name += ".html.tmpl"
		if htmlSet.Lookup(name) == nil {
			return "", fmt.Errorf("unknown template %q", name)
		}
		err = htmlSet.ExecuteTemplate(&buf, name, data)
	} else {
		name += ".text.tmpl"
		if textSet.Lookup(name) == nil {
			return "", fmt.Errorf("unknown template %q", name)
		}
		err = textSet.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render returns the text and HTML bodies of <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data EmailData) (text, html string, err error) {
	if text, err = execute(name, false, data); err != nil {
		return "", "", err
	}
	if html, err = execute(name, true, data); err != nil {
		return "", "", err
	}
	return text, html, nil
}

// RenderHTML renders only <name>.html.tmpl.
func RenderHTML(name string, data EmailData) (string, error) {
	return execute(name, true, data)
}
