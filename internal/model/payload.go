package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidPayload = errors.New("invalid payload")

const (
	DefaultPageNo    = 1
	DefaultNumOfRows = 10
)

// Params are the query parameters for one upstream page
type Params struct {
	PageNo    int    `json:"pageNo"`
	NumOfRows int    `json:"numOfRows"`
	FromDate  string `json:"fromDt,omitempty"` // YYYYMMDD, passed through unvalidated
	ToDate    string `json:"toDt,omitempty"`
}

// Normalize replaces out-of-range paging values with defaults
func (p Params) Normalize() Params {
	if p.PageNo < 1 {
		p.PageNo = DefaultPageNo
	}
	if p.NumOfRows < 1 {
		p.NumOfRows = DefaultNumOfRows
	}
	return p
}

// Payload is one page of procurement data of a single kind
type Payload struct {
	Kind       DataKind `json:"-"`
	TotalCount int      `json:"totalCount"`
	PageNo     int      `json:"pageNo"`
	NumOfRows  int      `json:"numOfRows"`
	Items      []Item   `json:"items"`
}

// NewPayload builds a Payload, enforcing the paging invariants and that every
// item belongs to kind.
func NewPayload(kind DataKind, totalCount, pageNo, numOfRows int, items []Item) (Payload, error) {
	if !kind.Valid() {
		return Payload{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidPayload, kind)
	}
	if totalCount < 0 {
		return Payload{}, fmt.Errorf("%w: totalCount %d < 0", ErrInvalidPayload, totalCount)
	}
	if pageNo < 1 {
		return Payload{}, fmt.Errorf("%w: pageNo %d < 1", ErrInvalidPayload, pageNo)
	}
	if numOfRows < 1 {
		return Payload{}, fmt.Errorf("%w: numOfRows %d < 1", ErrInvalidPayload, numOfRows)
	}
	if len(items) > numOfRows {
		return Payload{}, fmt.Errorf("%w: %d items exceed numOfRows %d", ErrInvalidPayload, len(items), numOfRows)
	}
	for i, item := range items {
		if item == nil || item.Kind() != kind {
			return Payload{}, fmt.Errorf("%w: item %d is not a %s", ErrInvalidPayload, i, kind)
		}
	}
	if items == nil {
		items = []Item{}
	}
	return Payload{
		Kind:       kind,
		TotalCount: totalCount,
		PageNo:     pageNo,
		NumOfRows:  numOfRows,
		Items:      items,
	}, nil
}

// DecodePayload decodes the wire form of a Payload of the given kind
func DecodePayload(kind DataKind, data []byte) (Payload, error) {
	var wire struct {
		TotalCount int             `json:"totalCount"`
		PageNo     int             `json:"pageNo"`
		NumOfRows  int             `json:"numOfRows"`
		Items      json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}

	var items []Item
	if len(wire.Items) > 0 && string(wire.Items) != "null" {
		decoded, err := DecodeItems(kind, wire.Items)
		if err != nil {
			return Payload{}, err
		}
		items = decoded
	}

	return NewPayload(kind, wire.TotalCount, wire.PageNo, wire.NumOfRows, items)
}

// Keys returns the natural keys of the payload items in order
func (p Payload) Keys() []string {
	keys := make([]string, len(p.Items))
	for i, item := range p.Items {
		keys[i] = item.Key()
	}
	return keys
}
