package prompts

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/taxon/pkg/handlers"
	"github.com/JaimeStill/taxon/pkg/routes"
)

// Handler serves prompt overrides under /prompts.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// StageContent is the body of the instructions and spec endpoints.
type StageContent struct {
	Stage   Stage  `json:"stage"`
	Content string `json:"content"`
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "prompts"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/stages", Handler: h.Stages},
		},
		Children: []routes.Group{{
			Prefix: "/{stage}",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.staged(h.find)},
				{Method: "PUT", Pattern: "", Handler: h.staged(h.override)},
				{Method: "DELETE", Pattern: "", Handler: h.staged(h.reset)},
				{Method: "GET", Pattern: "/instructions", Handler: h.staged(h.instructions)},
				{Method: "GET", Pattern: "/spec", Handler: h.staged(h.spec)},
			},
		}},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Stages())
}

// staged resolves the {stage} path value before calling fn. Unknown stages get 400.
func (h *Handler) staged(fn func(http.ResponseWriter, *http.Request, Stage)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stage, err := ParseStage(r.PathValue("stage"))
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		fn(w, r, stage)
	}
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request, stage Stage) {
	prompt, err := h.sys.Find(r.Context(), stage)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, prompt)
}

func (h *Handler) instructions(w http.ResponseWriter, r *http.Request, stage Stage) {
	h.content(w, stage, func() (string, error) { return h.sys.Instructions(r.Context(), stage) })
}

func (h *Handler) spec(w http.ResponseWriter, r *http.Request, stage Stage) {
	h.content(w, stage, func() (string, error) { return h.sys.Spec(r.Context(), stage) })
}

func (h *Handler) content(w http.ResponseWriter, stage Stage, get func() (string, error)) {
	text, err := get()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, StageContent{Stage: stage, Content: text})
}

func (h *Handler) override(w http.ResponseWriter, r *http.Request, stage Stage) {
	cmd, err := handlers.DecodeJSON[OverrideCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	prompt, err := h.sys.Override(r.Context(), stage, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, prompt)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request, stage Stage) {
	if err := h.sys.Reset(r.Context(), stage); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
