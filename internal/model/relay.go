package model

import "time"

// PayloadSource tells whether a dispatched payload came from the upstream or
// from the substitute generator
type PayloadSource string

const (
	SourceLive       PayloadSource = "live"
	SourceSubstitute PayloadSource = "substitute"
)

// RelayTrigger records what started a relay run
type RelayTrigger string

const (
	TriggerManual    RelayTrigger = "manual"
	TriggerSingle    RelayTrigger = "single"
	TriggerScheduled RelayTrigger = "scheduled"
)

// RelayOutcome is the result of one dispatch. A dispatch that could not reach
// the outbound endpoint still produces an outcome, with Delivered false.
type RelayOutcome struct {
	Kind        DataKind      `json:"kind" bson:"kind" firestore:"kind"`
	Source      PayloadSource `json:"source" bson:"source" firestore:"source"`
	Delivered   bool          `json:"delivered" bson:"delivered" firestore:"delivered"`
	ItemCount   int           `json:"itemCount" bson:"item_count" firestore:"item_count"`
	DurationMs  int64         `json:"durationMs" bson:"duration_ms" firestore:"duration_ms"`
	Error       string        `json:"error,omitempty" bson:"error,omitempty" firestore:"error,omitempty"`
	CompletedAt time.Time     `json:"completedAt" bson:"completed_at" firestore:"completed_at"`
}

// AggregateResult holds one outcome per DataKind, in AllKinds order
type AggregateResult struct {
	RunID        string         `json:"runId"`
	Outcomes     []RelayOutcome `json:"outcomes"`
	SuccessCount int            `json:"successCount"`
}

// CountDelivered returns the number of delivered outcomes
func CountDelivered(outcomes []RelayOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Delivered {
			n++
		}
	}
	return n
}

// RelayStatus is the last known delivery result for each kind
type RelayStatus struct {
	BidNotice bool `json:"bidNotice"`
	PreNotice bool `json:"preNotice"`
	Contract  bool `json:"contract"`
}

// Set records delivered for kind
func (s *RelayStatus) Set(kind DataKind, delivered bool) {
	switch kind {
	case KindBidNotice:
		s.BidNotice = delivered
	case KindPreNotice:
		s.PreNotice = delivered
	case KindContract:
		s.Contract = delivered
	}
}

// RelayRun is a history entry for one relay invocation
type RelayRun struct {
	ID           string         `json:"runId" bson:"run_id" firestore:"run_id"`
	Trigger      RelayTrigger   `json:"trigger" bson:"trigger" firestore:"trigger"`
	StartedAt    time.Time      `json:"startedAt" bson:"started_at" firestore:"started_at"`
	Outcomes     []RelayOutcome `json:"outcomes" bson:"outcomes" firestore:"outcomes"`
	SuccessCount int            `json:"successCount" bson:"success_count" firestore:"success_count"`
}

// LookupResult is a page fetched for a caller without delivering it.
// UpstreamError is set when Source is substitute.
type LookupResult struct {
	Kind          DataKind      `json:"kind"`
	Source        PayloadSource `json:"source"`
	UpstreamError string        `json:"upstreamError,omitempty"`
	Payload       Payload       `json:"payload"`
}
