package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"github.com/shopspring/decimal"
)

// Record returns the upstream wire form of the i-th sample item of kind.
// Amounts are strings, as the upstream sends them.
func Record(kind model.DataKind, i int) map[string]any {
	switch kind {
	case model.KindBidNotice:
		return map[string]any{
			"bidNtceNo":   fmt.Sprintf("20240100%03d", i),
			"bidNtceOrd":  "00",
			"bidNtceNm":   fmt.Sprintf("Test bid notice %d", i),
			"ntceInsttNm": "Public Procurement Service",
			"bidMethdNm":  "Electronic bidding",
			"presmptPrce": fmt.Sprintf("%d", 1000000*(i+1)),
			"bidNtceDt":   "2024-01-15 10:00:00",
			"bidClseDt":   "2024-01-25 18:00:00",
		}
	case model.KindPreNotice:
		return map[string]any{
			"bfSpecRgstNo":   fmt.Sprintf("R24BK00%03d", i),
			"prdctClsfcNoNm": fmt.Sprintf("Test pre-notice %d", i),
			"orderInsttNm":   "Public Procurement Service",
			"asignBdgtAmt":   fmt.Sprintf("%d", 500000*(i+1)),
			"rcptDt":         "2024-01-10 09:00:00",
		}
	case model.KindContract:
		return map[string]any{
			"cntrctNo":      fmt.Sprintf("CT2024%04d", i),
			"cntrctNm":      fmt.Sprintf("Test contract %d", i),
			"cntrctInsttNm": "Public Procurement Service",
			"cntrctMthdNm":  "Limited competition",
			"cntrctAmt":     fmt.Sprintf("%d", 2000000*(i+1)),
			"cntrctDate":    "2024-01-20",
		}
	}
	return map[string]any{}
}

// Records returns n sample upstream records of kind
func Records(kind model.DataKind, n int) []map[string]any {
	records := make([]map[string]any, n)
	for i := range records {
		records[i] = Record(kind, i)
	}
	return records
}

// EnvelopeFixture builds upstream response bodies
type EnvelopeFixture struct {
	ResultCode string
	ResultMsg  string
	Items      any
	NumOfRows  any
	PageNo     any
	TotalCount any
	OmitBody   bool
}

// NewEnvelopeFixture creates a successful envelope carrying n records of kind
func NewEnvelopeFixture(kind model.DataKind, n int) EnvelopeFixture {
	return EnvelopeFixture{
		ResultCode: "00",
		ResultMsg:  "NORMAL SERVICE.",
		Items:      Records(kind, n),
		NumOfRows:  10,
		PageNo:     1,
		TotalCount: 100,
	}
}

// WithItems replaces the items value verbatim
func (e EnvelopeFixture) WithItems(items any) EnvelopeFixture {
	e.Items = items
	return e
}

// WithNumOfRows sets numOfRows; strings are sent as JSON strings
func (e EnvelopeFixture) WithNumOfRows(n any) EnvelopeFixture {
	e.NumOfRows = n
	return e
}

// WithTotalCount sets totalCount
func (e EnvelopeFixture) WithTotalCount(n any) EnvelopeFixture {
	e.TotalCount = n
	return e
}

// WithResultCode sets the header result code and message
func (e EnvelopeFixture) WithResultCode(code, msg string) EnvelopeFixture {
	e.ResultCode = code
	e.ResultMsg = msg
	return e
}

// WithoutBody drops response.body
func (e EnvelopeFixture) WithoutBody() EnvelopeFixture {
	e.OmitBody = true
	return e
}

// JSON renders the envelope
func (e EnvelopeFixture) JSON() []byte {
	response := map[string]any{
		"header": map[string]any{
			"resultCode": e.ResultCode,
			"resultMsg":  e.ResultMsg,
		},
	}
	if !e.OmitBody {
		response["body"] = map[string]any{
			"items":      e.Items,
			"numOfRows":  e.NumOfRows,
			"pageNo":     e.PageNo,
			"totalCount": e.TotalCount,
		}
	}
	b, _ := json.Marshal(map[string]any{"response": response})
	return b
}

// NewPayloadFixture returns a valid payload with n items of kind
func NewPayloadFixture(kind model.DataKind, n int) model.Payload {
	items := make([]model.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item(kind, i))
	}
	rows := n
	if rows < 1 {
		rows = 1
	}
	p, err := model.NewPayload(kind, n*10, 1, rows, items)
	if err != nil {
		panic(err)
	}
	return p
}

// Item returns the typed form of Record(kind, i)
func Item(kind model.DataKind, i int) model.Item {
	switch kind {
	case model.KindBidNotice:
		return model.BidNotice{
			BidNtceNo:   fmt.Sprintf("20240100%03d", i),
			BidNtceNm:   fmt.Sprintf("Test bid notice %d", i),
			NtceInsttNm: "Public Procurement Service",
			PresmptPrce: decimal.NewFromInt(int64(1000000 * (i + 1))),
		}
	case model.KindPreNotice:
		return model.PreNotice{
			BfSpecRgstNo:   fmt.Sprintf("R24BK00%03d", i),
			PrdctClsfcNoNm: fmt.Sprintf("Test pre-notice %d", i),
			OrderInsttNm:   "Public Procurement Service",
			AsignBdgtAmt:   decimal.NewFromInt(int64(500000 * (i + 1))),
		}
	case model.KindContract:
		return model.Contract{
			CntrctNo:      fmt.Sprintf("CT2024%04d", i),
			CntrctNm:      fmt.Sprintf("Test contract %d", i),
			CntrctInsttNm: "Public Procurement Service",
			CntrctAmt:     decimal.NewFromInt(int64(2000000 * (i + 1))),
			CntrctDate:    "2024-01-20",
		}
	}
	return nil
}
