package webhook

import (
	"time"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
)

// Source tags every envelope sent by the relay
const Source = "UPSTREAM_RELAY"

// timestampLayout matches JavaScript's Date.toISOString, which downstream
// consumers already parse
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Metadata summarizes the payload so receivers can route without decoding data
type Metadata struct {
	Type       model.DataKind `json:"type"`
	TotalCount int            `json:"totalCount"`
	PageNo     int            `json:"pageNo"`
	NumOfRows  int            `json:"numOfRows"`
}

// Envelope is the body POSTed to the outbound endpoint
type Envelope struct {
	Timestamp string        `json:"timestamp"`
	Source    string        `json:"source"`
	Data      model.Payload `json:"data"`
	Metadata  Metadata      `json:"metadata"`
}

// NewEnvelope wraps payload without modifying it
func NewEnvelope(payload model.Payload, at time.Time) Envelope {
	return Envelope{
		Timestamp: at.UTC().Format(timestampLayout),
		Source:    Source,
		Data:      payload,
		Metadata: Metadata{
			Type:       payload.Kind,
			TotalCount: payload.TotalCount,
			PageNo:     payload.PageNo,
			NumOfRows:  payload.NumOfRows,
		},
	}
}
