package sessions

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/taxon/internal/export"
	"github.com/JaimeStill/taxon/internal/filter"
	"github.com/JaimeStill/taxon/internal/ingest"
	"github.com/JaimeStill/taxon/pkg/formatting"
	"github.com/JaimeStill/taxon/pkg/handlers"
	"github.com/JaimeStill/taxon/pkg/routes"
)

// Handler provides HTTP endpoints for session operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// UploadResponse is returned when a CSV upload creates a session.
type UploadResponse struct {
	Session  Summary          `json:"session"`
	Warnings []ingest.Warning `json:"warnings"`
	Encoding string           `json:"encoding"`
}

// FiltersCommand replaces a session's filter conditions.
type FiltersCommand struct {
	Conditions []filter.Condition `json:"conditions"`
}

// SortCommand sorts by a column, toggling direction on the current column.
type SortCommand struct {
	Column string `json:"column"`
}

// PageCommand moves to a zero-based page.
type PageCommand struct {
	Index int `json:"index"`
}

// PageSizeCommand changes the page size.
type PageSizeCommand struct {
	Size int `json:"size"`
}

// SearchCommand sets the field-name search term.
type SearchCommand struct {
	Term string `json:"term"`
}

// PublishCommand selects the format and header locale of a published export.
type PublishCommand struct {
	Format string `json:"format"`
	Locale string `json:"locale"`
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "sessions"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "POST", Pattern: "/load", Handler: h.Load},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "PUT", Pattern: "/{id}/filters", Handler: h.ApplyFilters},
			{Method: "DELETE", Pattern: "/{id}/filters", Handler: h.ClearFilters},
			{Method: "POST", Pattern: "/{id}/sort", Handler: h.SortBy},
			{Method: "DELETE", Pattern: "/{id}/sort", Handler: h.ClearSort},
			{Method: "POST", Pattern: "/{id}/page", Handler: h.SetPage},
			{Method: "POST", Pattern: "/{id}/page-size", Handler: h.SetPageSize},
			{Method: "POST", Pattern: "/{id}/search", Handler: h.SetSearchTerm},
			{Method: "GET", Pattern: "/{id}/view", Handler: h.View},
			{Method: "GET", Pattern: "/{id}/options", Handler: h.Options},
			{Method: "GET", Pattern: "/{id}/mappings", Handler: h.Mappings},
			{Method: "GET", Pattern: "/{id}/export", Handler: h.Export},
			{Method: "POST", Pattern: "/{id}/publish", Handler: h.Publish},
		},
	}
}

// List returns a summary of every session in creation order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	out := make([]Summary, len(sessions))
	for i, s := range sessions {
		out[i] = s.Summary()
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

// Upload reads a CSV field inventory from the "file" form field and starts a
// classification session. The session completes in the background.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readFile(w, r)
	if !ok {
		return
	}

	parsed, err := ingest.ParseRows(bytes.NewReader(data))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	s, err := h.sys.Classify(r.Context(), parsed.Items)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, UploadResponse{
		Session:  s.Summary(),
		Warnings: parsed.Warnings,
		Encoding: parsed.Encoding,
	})
}

// Load reads a CSV of already-labeled records and opens a completed session.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readFile(w, r)
	if !ok {
		return
	}

	parsed, err := ingest.ParseRecords(bytes.NewReader(data))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	s, err := h.sys.Load(r.Context(), parsed.Items)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, UploadResponse{
		Session:  s.Summary(),
		Warnings: parsed.Warnings,
		Encoding: parsed.Encoding,
	})
}

// Find returns a session summary by id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s.Summary())
}

// Delete removes a session and retires its mapping table.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyFilters replaces the session's conditions. An invalid condition leaves
// the previous filter in place and responds 422.
func (h *Handler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[FiltersCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, err := h.sys.ApplyFilters(r.Context(), r.PathValue("id"), cmd.Conditions)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s.Summary())
}

// ClearFilters removes every condition.
func (h *Handler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.ClearFilters(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s.Summary())
}

// SortBy applies a sort command and returns the re-rendered page.
func (h *Handler) SortBy(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[SortCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	id := r.PathValue("id")
	if _, err := h.sys.SortBy(r.Context(), id, cmd.Column); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	h.respondView(w, r, id)
}

// ClearSort returns the table to input order.
func (h *Handler) ClearSort(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.sys.ClearSort(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	h.respondView(w, r, id)
}

// SetPage moves to a page and returns it.
func (h *Handler) SetPage(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[PageCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	id := r.PathValue("id")
	if _, err := h.sys.SetPage(r.Context(), id, cmd.Index); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	h.respondView(w, r, id)
}

// SetPageSize changes the page size and returns the first page.
func (h *Handler) SetPageSize(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[PageSizeCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	id := r.PathValue("id")
	if _, err := h.sys.SetPageSize(r.Context(), id, cmd.Size); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	h.respondView(w, r, id)
}

// SetSearchTerm narrows the table by field name and returns the page.
func (h *Handler) SetSearchTerm(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[SearchCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	id := r.PathValue("id")
	if _, err := h.sys.SetSearchTerm(r.Context(), id, cmd.Term); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	h.respondView(w, r, id)
}

// View returns the current page.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, r.PathValue("id"))
}

// Options returns the value domain of every enumerable field.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.sys.Options(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, opts)
}

// Mappings returns the mapping table of the session's classification task.
func (h *Handler) Mappings(w http.ResponseWriter, r *http.Request) {
	entries, err := h.sys.Mappings(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, entries)
}

// Export streams the filtered, searched and sorted records as an attachment.
// Query parameters: format (csv, json, parquet) and locale (en, zh).
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	opts, err := exportOptions(r.URL.Query().Get("format"), r.URL.Query().Get("locale"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	id := r.PathValue("id")

	var buf bytes.Buffer
	if err := h.sys.Export(r.Context(), id, opts, &buf); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", opts.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+"."+opts.Format.Extension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("export write failed", "session", id, "format", opts.Format, "error", err)
	}
}

// Publish renders the export and uploads it to blob storage.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[PublishCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	opts, err := exportOptions(cmd.Format, cmd.Locale)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	artifact, err := h.sys.Publish(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, artifact)
}

func (h *Handler) respondView(w http.ResponseWriter, r *http.Request, id string) {
	view, err := h.sys.View(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, view)
}

// readFile extracts the "file" form field, bounded by maxUploadSize.
func (h *Handler) readFile(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidFile, err))
			return nil, false
		}
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: limit %s", ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 1)))
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidFile, err))
		return nil, false
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidFile, err))
		return nil, false
	}
	return buf.Bytes(), true
}

func exportOptions(format, locale string) (export.Options, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return export.Options{}, err
	}
	l, err := export.ParseLocale(locale)
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{Format: f, Locale: l}, nil
}
