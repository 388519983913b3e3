package httpapi

import (
	"net/http"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/middleware"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/service"
)

// NewRouter serves the relay API. defaults fill paging values a request
// leaves out.
func NewRouter(svc *service.Service, defaults model.Params) http.Handler {
	h := NewHandlers(svc, defaults)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/relay", h.HandleRelayAll)
	mux.HandleFunc("POST /v1/relay/{kind}", h.HandleRelayKind)
	mux.HandleFunc("GET /v1/relay/status", h.HandleStatus)
	mux.HandleFunc("GET /v1/relay/runs", h.HandleRuns)
	mux.HandleFunc("GET /v1/data/{kind}", h.HandleLookup)

	mux.HandleFunc("GET /health", handleHealth)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging,
		middleware.Recovery,
	)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy","service":"procurement-relay"}`))
}
