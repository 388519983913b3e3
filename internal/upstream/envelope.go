package upstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingBody = errors.New("response.body missing")
	ErrResultCode  = errors.New("upstream result code")
)

// envelope is the response wrapper used by every procurement operation
type envelope struct {
	Response *struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body *struct {
			Items      json.RawMessage `json:"items"`
			NumOfRows  flexInt         `json:"numOfRows"`
			PageNo     flexInt         `json:"pageNo"`
			TotalCount flexInt         `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// flexInt accepts a JSON number, a numeric string, or an empty string
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %q", s)
	}
	*f = flexInt(n)
	return nil
}

// record is one upstream item before it is turned into a typed model.Item
type record map[string]json.RawMessage

// str returns the field as text. Strings are unquoted, numbers keep their
// literal form, absent or null fields are empty.
func (r record) str(key string) string {
	raw, ok := r[key]
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return string(raw)
}

func (r record) amount(key string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(r.str(key), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// parseEnvelope decodes an upstream response body into a Payload of kind.
// Missing paging values fall back to the requested ones.
func parseEnvelope(kind model.DataKind, build builder, body []byte, params model.Params) (model.Payload, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return model.Payload{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Response == nil || env.Response.Body == nil {
		return model.Payload{}, ErrMissingBody
	}

	switch code := env.Response.Header.ResultCode; code {
	case "", "0", "00":
	default:
		return model.Payload{}, fmt.Errorf("%w %s: %s", ErrResultCode, code, env.Response.Header.ResultMsg)
	}

	b := env.Response.Body

	records, err := splitItems(b.Items)
	if err != nil {
		return model.Payload{}, err
	}

	items := make([]model.Item, 0, len(records))
	for i, rec := range records {
		item, err := build(rec)
		if err != nil {
			return model.Payload{}, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}

	pageNo := int(b.PageNo)
	if pageNo < 1 {
		pageNo = params.PageNo
	}
	numOfRows := int(b.NumOfRows)
	if numOfRows < 1 {
		numOfRows = params.NumOfRows
	}

	return model.NewPayload(kind, int(b.TotalCount), pageNo, numOfRows, items)
}

// splitItems accepts the shapes the upstream uses for its item list: a plain
// array, an {"item": [...]} or {"item": {...}} wrapper, or an empty string
// when the page is empty.
func splitItems(raw json.RawMessage) ([]record, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		var records []record
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		return records, nil
	case '{':
		var wrapper struct {
			Item json.RawMessage `json:"item"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		inner := bytes.TrimSpace(wrapper.Item)
		if len(inner) > 0 && inner[0] == '{' {
			var single record
			if err := json.Unmarshal(inner, &single); err != nil {
				return nil, fmt.Errorf("decode item: %w", err)
			}
			return []record{single}, nil
		}
		return splitItems(inner)
	default:
		return nil, fmt.Errorf("unrecognized items value %.32q", raw)
	}
}
