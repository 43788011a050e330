package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"eventfinder/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Parsed once; every email is one base name with _subject.txt, .html and .txt parts.
var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// ErrUnknownTemplate is returned by Render for a name with no embedded template.
var ErrUnknownTemplate = errors.New("unknown email template")

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

type templateRenderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewTemplateRenderer returns an EmailTemplateRenderer backed by the embedded templates folder.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{html: htmlTemplates, text: textTemplates}
}

func (r *templateRenderer) Render(name string, data any) (subject, htmlBody, textBody string, err error) {
	if r.html.Lookup(name+".html") == nil || r.text.Lookup(name+".txt") == nil || r.text.Lookup(name+"_subject.txt") == nil {
		return "", "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	if subject, err = execute(r.text, name+"_subject.txt", data); err != nil {
		return "", "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	if htmlBody, err = execute(r.html, name+".html", data); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	if textBody, err = execute(r.text, name+".txt", data); err != nil {
		return "", "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func execute(t executor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
