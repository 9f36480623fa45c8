// Package web отвечает за HTML-страницы бэкофиса: шаблоны встроены в
// бинарник и рендерятся стандартным html/template.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var files embed.FS

// Renderer рендерит встроенные страницы по имени файла шаблона.
type Renderer struct {
	tmpl *template.Template
}

// New парсит все встроенные шаблоны.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web.New: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render пишет страницу в ответ. Ошибка рендера после начала записи
// не восстанавливается, поэтому страница собирается напрямую в w.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("web.Render %s: %w", name, err)
	}
	return nil
}

// MustNew — New с паникой, используется при старте приложения.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}
