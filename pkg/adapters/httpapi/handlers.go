// Package httpapi relays parameters over HTTP. Producers POST a mapping;
// consumers list and fetch what arrived.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/xitem/pkg/codec"
	"github.com/aretw0/xitem/pkg/lint"
	"github.com/aretw0/xitem/pkg/params"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is set.
const DefaultMaxBodyBytes int64 = 1 << 20

// Sender receives every accepted item, e.g. an fs.Outbox.
type Sender interface {
	Send(ctx context.Context, p params.Parameters) (string, error)
}

// Handler implements the relay endpoints.
type Handler struct {
	items   *ring
	maxBody int64
	sender  Sender
	logger  *slog.Logger
	version string
}

// NewHandler creates a Handler.
func NewHandler(opts ...Option) *Handler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.maxBody <= 0 {
		o.maxBody = DefaultMaxBodyBytes
	}
	return &Handler{
		items:   newRing(o.history),
		maxBody: o.maxBody,
		sender:  o.sender,
		logger:  o.logger,
		version: o.version,
	}
}

// CreateResponse is the body of a successful POST /items.
type CreateResponse struct {
	ID       string         `json:"id"`
	Findings []lint.Finding `json:"findings"`
	Path     string         `json:"path,omitempty"`
}

// ListResponse is the body of GET /items.
type ListResponse struct {
	IDs []string `json:"ids"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Items   int    `json:"items"`
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: h.version, Items: h.items.len()})
}

// CreateItem handles POST /items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	c, err := requestCodec(r)
	if err != nil {
		WriteProblem(w, r, http.StatusUnsupportedMediaType, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteProblem(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Body exceeds %d bytes", h.maxBody))
			return
		}
		WriteProblem(w, r, http.StatusBadRequest, "Failed to read body")
		return
	}

	m, err := c.Unmarshal(body)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", c.Name(), err.Error()))
		return
	}

	p := params.FromMapping(m)
	findings := lint.Check(m)
	if findings == nil {
		findings = []lint.Finding{}
	}

	// An item is only stored once it has been relayed.
	var path string
	if h.sender != nil {
		path, err = h.sender.Send(r.Context(), p)
		if err != nil {
			h.logger.Error("relay send failed", "title", p.Title(), "error", err)
			WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
			return
		}
	}
	it := h.items.put(p.ToMapping())
	resp := CreateResponse{ID: it.ID, Path: path, Findings: findings}

	h.logger.Info("item received", "id", it.ID, "title", p.Title(), "findings", len(findings))
	writeJSON(w, http.StatusCreated, resp)
}

// GetItem handles GET /items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	it, ok := h.items.get(id)
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, fmt.Sprintf("Item %q not found", id))
		return
	}

	data, err := codec.NewJSON().Marshal(it.Mapping)
	if err != nil {
		h.logger.Error("failed to encode item", "id", id, "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListItems handles GET /items
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListResponse{IDs: h.items.ids()})
}

// requestCodec picks the codec from the Content-Type header. JSON is the default.
func requestCodec(r *http.Request) (codec.Codec, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return codec.NewJSON(), nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, fmt.Errorf("invalid Content-Type %q", ct)
	}
	switch mt {
	case "application/json", "text/json":
		return codec.NewJSON(), nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return codec.NewYAML(), nil
	case "application/toml":
		return codec.NewTOML(), nil
	}
	return nil, fmt.Errorf("unsupported Content-Type %q", mt)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
