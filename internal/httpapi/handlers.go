package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/middleware"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/service"
)

const maxBodySize = 1 << 20

var errBadParams = errors.New("invalid parameters")

type Handlers struct {
	svc      *service.Service
	defaults model.Params
}

func NewHandlers(svc *service.Service, defaults model.Params) *Handlers {
	return &Handlers{svc: svc, defaults: defaults.Normalize()}
}

type relayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// HandleRelayAll handles POST /v1/relay
func (h *Handlers) HandleRelayAll(w http.ResponseWriter, r *http.Request) {
	params, err := h.params(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}

	result := h.svc.RelayAll(r.Context(), params)

	writeJSON(w, http.StatusOK, relayResponse{
		Success: result.SuccessCount > 0,
		Message: fmt.Sprintf("%d/%d data sets were relayed", result.SuccessCount, len(result.Outcomes)),
		Data:    result,
	})
}

// HandleRelayKind handles POST /v1/relay/{kind}. An undelivered outcome is
// still a 200; the body says what happened.
func (h *Handlers) HandleRelayKind(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseDataKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unknown_kind", err.Error())
		return
	}
	params, err := h.params(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}

	result := h.svc.Dispatch(r.Context(), kind, params)
	outcome := result.Outcomes[0]

	writeJSON(w, http.StatusOK, relayResponse{
		Success: outcome.Delivered,
		Data:    outcome,
	})
}

// HandleStatus handles GET /v1/relay/status
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.svc.Status(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load relay status", "error", err)
		writeError(w, r, http.StatusInternalServerError, "status_unavailable", "failed to load relay status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HandleRuns handles GET /v1/relay/runs?limit=
func (h *Handlers) HandleRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "invalid_params", "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.svc.Runs(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list relay runs", "error", err)
		writeError(w, r, http.StatusInternalServerError, "runs_unavailable", "failed to list relay runs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// HandleLookup handles GET /v1/data/{kind}
func (h *Handlers) HandleLookup(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseDataKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unknown_kind", err.Error())
		return
	}
	params, err := h.params(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.svc.Lookup(r.Context(), kind, params))
}

// params reads paging from an optional JSON body, then the query string,
// which wins. Missing values come from h.defaults.
func (h *Handlers) params(r *http.Request) (model.Params, error) {
	p := h.defaults

	if r.Body != nil && r.ContentLength != 0 {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			return p, fmt.Errorf("%w: read body: %v", errBadParams, err)
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &p); err != nil {
				return p, fmt.Errorf("%w: body is not valid JSON", errBadParams)
			}
		}
	}

	q := r.URL.Query()
	for _, field := range []struct {
		key string
		dst *int
	}{
		{"pageNo", &p.PageNo},
		{"numOfRows", &p.NumOfRows},
	} {
		v := q.Get(field.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%w: %s must be an integer", errBadParams, field.key)
		}
		*field.dst = n
	}
	if v := q.Get("fromDt"); v != "" {
		p.FromDate = v
	}
	if v := q.Get("toDt"); v != "" {
		p.ToDate = v
	}

	return p.Normalize(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":       code,
			"message":    message,
			"request_id": middleware.RequestIDFrom(r.Context()),
		},
	})
}
