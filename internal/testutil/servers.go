package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
)

// NewUpstreamServer serves NewEnvelopeFixture(kind, n) for every operation it
// knows, keyed by the last path segment
func NewUpstreamServer(t *testing.T, operations map[string]model.DataKind, n int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		kind, ok := operations[op]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(NewEnvelopeFixture(kind, n).JSON())
	}))
	t.Cleanup(ts.Close)
	return ts
}

// NewFailingServer answers every request with status
func NewFailingServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// ReceivedDelivery is one request captured by a WebhookRecorder
type ReceivedDelivery struct {
	Authorization string
	RelayType     string
	Envelope      struct {
		Timestamp string          `json:"timestamp"`
		Source    string          `json:"source"`
		Data      json.RawMessage `json:"data"`
		Metadata  struct {
			Type       model.DataKind `json:"type"`
			TotalCount int            `json:"totalCount"`
			PageNo     int            `json:"pageNo"`
			NumOfRows  int            `json:"numOfRows"`
		} `json:"metadata"`
	}
}

// WebhookRecorder is an outbound endpoint that records what it receives
type WebhookRecorder struct {
	*httptest.Server

	mu         sync.Mutex
	status     int
	deliveries []ReceivedDelivery
}

// NewWebhookRecorder starts a recorder answering with status
func NewWebhookRecorder(t *testing.T, status int) *WebhookRecorder {
	t.Helper()
	rec := &WebhookRecorder{status: status}
	rec.Server = httptest.NewServer(http.HandlerFunc(rec.handle))
	t.Cleanup(rec.Close)
	return rec
}

func (rec *WebhookRecorder) handle(w http.ResponseWriter, r *http.Request) {
	var d ReceivedDelivery
	d.Authorization = r.Header.Get("Authorization")
	d.RelayType = r.Header.Get("X-Relay-Type")
	body, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(body, &d.Envelope)

	rec.mu.Lock()
	rec.deliveries = append(rec.deliveries, d)
	status := rec.status
	rec.mu.Unlock()

	w.WriteHeader(status)
}

// Deliveries returns a copy of everything received so far
func (rec *WebhookRecorder) Deliveries() []ReceivedDelivery {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]ReceivedDelivery, len(rec.deliveries))
	copy(out, rec.deliveries)
	return out
}

// ByKind returns the deliveries for kind
func (rec *WebhookRecorder) ByKind(kind model.DataKind) []ReceivedDelivery {
	var out []ReceivedDelivery
	for _, d := range rec.Deliveries() {
		if d.Envelope.Metadata.Type == kind {
			out = append(out, d)
		}
	}
	return out
}
