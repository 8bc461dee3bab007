package api

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"runtime/debug"

	"web-a11y/internal/markup"
	"web-a11y/internal/processor"
)

//go:embed templates/index.html
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// TemplateData feeds the form page.
type TemplateData struct {
	URL      string
	Source   string
	Markdown bool
	Error    string
	Results  *processor.Output
}

// ProcessedHTML is the processed document as page text.
func (d TemplateData) ProcessedHTML() string {
	if d.Results == nil {
		return ""
	}
	return string(d.Results.HTML)
}

// OutlineLevels is the heading outline as a level sequence.
func (d TemplateData) OutlineLevels() []int {
	if d.Results == nil || d.Results.Result == nil {
		return nil
	}
	return d.Results.Result.Outline.Levels()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, TemplateData{})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, TemplateData{Error: "The form could not be read."})
		return
	}

	data := TemplateData{
		URL:      r.FormValue("url"),
		Source:   r.FormValue("html"),
		Markdown: r.FormValue("markdown") != "",
	}

	req := processor.Request{
		UserAgent: r.UserAgent(),
		Markdown:  data.Markdown,
	}
	if data.URL != "" {
		req.URL = data.URL
		req.Markdown = req.Markdown || markup.IsMarkdown(data.URL)
	} else {
		req.Source = []byte(data.Source)
	}

	results, err := processor.ProcessPage(r.Context(), s.log, s.cfg, req)
	if err != nil {
		s.log.WarnContext(r.Context(), "Processing failed", slog.String("url", data.URL), slog.Any("error", err))
		data.Error = "Failed to process the page. The URL might be unreachable or the content invalid."
	} else {
		data.Results = results
	}

	s.render(w, data)
}

func (s *Server) render(w http.ResponseWriter, data TemplateData) {
	if err := tmpl.Execute(w, data); err != nil {
		s.serverError(w, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	trace := string(debug.Stack())
	s.log.Error("Internal Server Error", slog.Any("error", err), slog.String("trace", trace))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
