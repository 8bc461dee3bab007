package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"web-a11y/internal/dom"
	"web-a11y/internal/markup"
	"web-a11y/internal/processor"
	"web-a11y/internal/report"
)

const (
	formatHTML    = "html"
	formatDiff    = "diff"
	formatOutline = "outline"
	formatJSON    = "json"
)

type summary struct {
	Title            string         `json:"title"`
	Headings         map[string]int `json:"headings"`
	Outline          []int          `json:"outline"`
	SkipLinks        int            `json:"skip_links"`
	Shortcuts        int            `json:"shortcuts"`
	LongDescriptions int            `json:"long_descriptions"`
}

// handleProcess runs the engine over the raw request body. Markdown bodies
// are recognized by their content type.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatHTML
	}
	switch format {
	case formatHTML, formatDiff, formatOutline, formatJSON:
	default:
		jsonError(w, fmt.Sprintf("unsupported format: %s", format), http.StatusBadRequest)
		return
	}

	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	req := processor.Request{
		Source:    body,
		Markdown:  markup.IsMarkdown(r.Header.Get("Content-Type")),
		Title:     r.URL.Query().Get("title"),
		UserAgent: r.UserAgent(),
	}
	out, err := processor.ProcessPage(r.Context(), s.log, s.cfg, req)
	if err != nil {
		s.processError(w, r, err)
		return
	}

	w.Header().Set("X-Skip-Links", strconv.Itoa(out.Result.SkipLinks))
	w.Header().Set("X-Shortcuts", strconv.Itoa(out.Result.Shortcuts))

	switch format {
	case formatDiff:
		w.Header().Set("Content-Type", "text/x-diff; charset=utf-8")
		io.WriteString(w, out.Diff)
	case formatOutline:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		report.WriteOutline(w, out.Result.Outline)
	case formatJSON:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary{
			Title:            out.Title,
			Headings:         out.Headings,
			Outline:          out.Result.Outline.Levels(),
			SkipLinks:        out.Result.SkipLinks,
			Shortcuts:        out.Result.Shortcuts,
			LongDescriptions: out.Result.LongDescriptions,
		})
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(out.HTML)
	}
}

func (s *Server) processError(w http.ResponseWriter, r *http.Request, err error) {
	var selErr *dom.SelectorError
	switch {
	case errors.Is(err, processor.ErrEmptyRequest):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, processor.ErrPageUnavailable):
		jsonError(w, "the page could not be fetched", http.StatusBadGateway)
	case errors.As(err, &selErr):
		s.log.ErrorContext(r.Context(), "Configured selector is invalid", slog.String("selector", selErr.Selector), slog.Any("error", err))
		jsonError(w, "invalid selector configured: "+selErr.Selector, http.StatusInternalServerError)
	default:
		s.log.ErrorContext(r.Context(), "Processing failed", slog.Any("error", err))
		jsonError(w, "processing failed", http.StatusInternalServerError)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
