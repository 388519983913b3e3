package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidItem = errors.New("invalid item")

// Item is a kind-specific procurement record. Items are immutable values
// identified only by their natural key.
type Item interface {
	Kind() DataKind
	Key() string
}

// BidNotice is a published bid announcement
type BidNotice struct {
	BidNtceNo         string          `json:"bidNtceNo"`
	BidNtceOrd        string          `json:"bidNtceOrd,omitempty"`
	BidNtceNm         string          `json:"bidNtceNm"`
	NtceInsttNm       string          `json:"ntceInsttNm"`
	DminsttNm         string          `json:"dminsttNm,omitempty"`
	BidMethdNm        string          `json:"bidMethdNm,omitempty"`
	CntrctCnclsMthdNm string          `json:"cntrctCnclsMthdNm,omitempty"`
	PresmptPrce       decimal.Decimal `json:"presmptPrce"`
	BidNtceDt         string          `json:"bidNtceDt,omitempty"`
	BidClseDt         string          `json:"bidClseDt,omitempty"`
	OpengDt           string          `json:"opengDt,omitempty"`
	BidNtceDtlURL     string          `json:"bidNtceDtlUrl,omitempty"`
}

// NewBidNotice returns n if its required fields are present
func NewBidNotice(n BidNotice) (BidNotice, error) {
	if err := require(KindBidNotice, "bidNtceNo", n.BidNtceNo); err != nil {
		return BidNotice{}, err
	}
	if err := require(KindBidNotice, "bidNtceNm", n.BidNtceNm); err != nil {
		return BidNotice{}, err
	}
	if err := require(KindBidNotice, "ntceInsttNm", n.NtceInsttNm); err != nil {
		return BidNotice{}, err
	}
	if n.PresmptPrce.IsNegative() {
		return BidNotice{}, fmt.Errorf("%w: %s presmptPrce is negative", ErrInvalidItem, KindBidNotice)
	}
	return n, nil
}

func (n BidNotice) Kind() DataKind { return KindBidNotice }
func (n BidNotice) Key() string    { return n.BidNtceNo }

// PreNotice is a pre-specification disclosure published ahead of a bid
type PreNotice struct {
	BfSpecRgstNo    string          `json:"bfSpecRgstNo"`
	PrdctClsfcNoNm  string          `json:"prdctClsfcNoNm"`
	OrderInsttNm    string          `json:"orderInsttNm"`
	RlDminsttNm     string          `json:"rlDminsttNm,omitempty"`
	AsignBdgtAmt    decimal.Decimal `json:"asignBdgtAmt"`
	RcptDt          string          `json:"rcptDt,omitempty"`
	OpninRgstClseDt string          `json:"opninRgstClseDt,omitempty"`
	BidNtceNoList   string          `json:"bidNtceNoList,omitempty"`
}

// NewPreNotice returns p if its required fields are present
func NewPreNotice(p PreNotice) (PreNotice, error) {
	if err := require(KindPreNotice, "bfSpecRgstNo", p.BfSpecRgstNo); err != nil {
		return PreNotice{}, err
	}
	if err := require(KindPreNotice, "prdctClsfcNoNm", p.PrdctClsfcNoNm); err != nil {
		return PreNotice{}, err
	}
	if err := require(KindPreNotice, "orderInsttNm", p.OrderInsttNm); err != nil {
		return PreNotice{}, err
	}
	if p.AsignBdgtAmt.IsNegative() {
		return PreNotice{}, fmt.Errorf("%w: %s asignBdgtAmt is negative", ErrInvalidItem, KindPreNotice)
	}
	return p, nil
}

func (p PreNotice) Kind() DataKind { return KindPreNotice }
func (p PreNotice) Key() string    { return p.BfSpecRgstNo }

// Contract is a concluded procurement contract
type Contract struct {
	CntrctNo      string          `json:"cntrctNo"`
	CntrctNm      string          `json:"cntrctNm"`
	CntrctInsttNm string          `json:"cntrctInsttNm"`
	CntrctMthdNm  string          `json:"cntrctMthdNm,omitempty"`
	CntrctAmt     decimal.Decimal `json:"cntrctAmt"`
	CntrctDate    string          `json:"cntrctDate"`
	CorpNm        string          `json:"corpNm,omitempty"`
}

// NewContract returns c if its required fields are present
func NewContract(c Contract) (Contract, error) {
	if err := require(KindContract, "cntrctNo", c.CntrctNo); err != nil {
		return Contract{}, err
	}
	if err := require(KindContract, "cntrctNm", c.CntrctNm); err != nil {
		return Contract{}, err
	}
	if err := require(KindContract, "cntrctInsttNm", c.CntrctInsttNm); err != nil {
		return Contract{}, err
	}
	if err := require(KindContract, "cntrctDate", c.CntrctDate); err != nil {
		return Contract{}, err
	}
	if c.CntrctAmt.IsNegative() {
		return Contract{}, fmt.Errorf("%w: %s cntrctAmt is negative", ErrInvalidItem, KindContract)
	}
	return c, nil
}

func (c Contract) Kind() DataKind { return KindContract }
func (c Contract) Key() string    { return c.CntrctNo }

// DecodeItems decodes a JSON array of items of the given kind, validating each
func DecodeItems(kind DataKind, raw json.RawMessage) ([]Item, error) {
	switch kind {
	case KindBidNotice:
		return decodeAs(raw, NewBidNotice)
	case KindPreNotice:
		return decodeAs(raw, NewPreNotice)
	case KindContract:
		return decodeAs(raw, NewContract)
	default:
		return nil, fmt.Errorf("unknown data kind %q", kind)
	}
}

func decodeAs[T Item](raw json.RawMessage, construct func(T) (T, error)) ([]Item, error) {
	var decoded []T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	items := make([]Item, 0, len(decoded))
	for i, d := range decoded {
		item, err := construct(d)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func require(kind DataKind, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s missing required field %s", ErrInvalidItem, kind, field)
	}
	return nil
}
