package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/JaimeStill/taxon/internal/export"
	"github.com/JaimeStill/taxon/pkg/handlers"
	"github.com/JaimeStill/taxon/pkg/routes"
	"github.com/JaimeStill/taxon/pkg/storage"
)

// exportsHandler serves published export artifacts back out of blob storage.
type exportsHandler struct {
	store  storage.System
	logger *slog.Logger
}

func newExportsHandler(store storage.System, logger *slog.Logger) *exportsHandler {
	return &exportsHandler{
		store:  store,
		logger: logger.With("handler", "exports"),
	}
}

func (h *exportsHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/exports",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list},
			{Method: "GET", Pattern: "/{key...}", Handler: h.download},
			{Method: "DELETE", Pattern: "/{key...}", Handler: h.delete},
		},
	}
}

// key maps the request path to the blob key; artifacts live under exports/.
func (h *exportsHandler) key(r *http.Request) (string, error) {
	raw := r.PathValue("key")
	if err := storage.ValidateKey(raw); err != nil {
		return "", err
	}
	return path.Join("exports", raw), nil
}

// list returns published artifacts, optionally narrowed to one session.
// Keys are reported relative to exports/ so they can be fed back to download.
func (h *exportsHandler) list(w http.ResponseWriter, r *http.Request) {
	prefix := "exports/"
	if session := r.URL.Query().Get("session"); session != "" {
		if strings.Contains(session, "/") {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, storage.ErrInvalidKey)
			return
		}
		prefix += session + "/"
	}

	blobs, err := h.store.List(r.Context(), prefix)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	out := make([]storage.Blob, len(blobs))
	for i, b := range blobs {
		b.Key = strings.TrimPrefix(b.Key, "exports/")
		out[i] = b
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

func (h *exportsHandler) download(w http.ResponseWriter, r *http.Request) {
	key, err := h.key(r)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	contentType := "application/octet-stream"
	if f, err := export.ParseFormat(strings.TrimPrefix(path.Ext(key), ".")); err == nil {
		contentType = f.ContentType()
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("export download interrupted", "key", key, "error", err)
	}
}

func (h *exportsHandler) delete(w http.ResponseWriter, r *http.Request) {
	key, err := h.key(r)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	if err := h.store.Delete(r.Context(), key); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
