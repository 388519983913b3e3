package upstream

import (
	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
)

type builder func(record) (model.Item, error)

type kindEntry struct {
	operation string
	build     builder
}

var kinds = map[model.DataKind]kindEntry{
	model.KindBidNotice: {operation: "getBidPblancListInfoServc", build: buildBidNotice},
	model.KindPreNotice: {operation: "getPublicPrcureThngInfoServc", build: buildPreNotice},
	model.KindContract:  {operation: "getCntrctInfoListServc", build: buildContract},
}

// Operation returns the upstream operation name queried for kind
func Operation(kind model.DataKind) (string, bool) {
	entry, ok := kinds[kind]
	return entry.operation, ok
}

func buildBidNotice(r record) (model.Item, error) {
	price, err := r.amount("presmptPrce")
	if err != nil {
		return nil, err
	}
	n, err := model.NewBidNotice(model.BidNotice{
		BidNtceNo:         r.str("bidNtceNo"),
		BidNtceOrd:        r.str("bidNtceOrd"),
		BidNtceNm:         r.str("bidNtceNm"),
		NtceInsttNm:       r.str("ntceInsttNm"),
		DminsttNm:         r.str("dminsttNm"),
		BidMethdNm:        r.str("bidMethdNm"),
		CntrctCnclsMthdNm: r.str("cntrctCnclsMthdNm"),
		PresmptPrce:       price,
		BidNtceDt:         r.str("bidNtceDt"),
		BidClseDt:         r.str("bidClseDt"),
		OpengDt:           r.str("opengDt"),
		BidNtceDtlURL:     r.str("bidNtceDtlUrl"),
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func buildPreNotice(r record) (model.Item, error) {
	budget, err := r.amount("asignBdgtAmt")
	if err != nil {
		return nil, err
	}
	p, err := model.NewPreNotice(model.PreNotice{
		BfSpecRgstNo:    r.str("bfSpecRgstNo"),
		PrdctClsfcNoNm:  r.str("prdctClsfcNoNm"),
		OrderInsttNm:    r.str("orderInsttNm"),
		RlDminsttNm:     r.str("rlDminsttNm"),
		AsignBdgtAmt:    budget,
		RcptDt:          r.str("rcptDt"),
		OpninRgstClseDt: r.str("opninRgstClseDt"),
		BidNtceNoList:   r.str("bidNtceNoList"),
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func buildContract(r record) (model.Item, error) {
	amount, err := r.amount("cntrctAmt")
	if err != nil {
		return nil, err
	}
	c, err := model.NewContract(model.Contract{
		CntrctNo:      r.str("cntrctNo"),
		CntrctNm:      r.str("cntrctNm"),
		CntrctInsttNm: r.str("cntrctInsttNm"),
		CntrctMthdNm:  r.str("cntrctMthdNm"),
		CntrctAmt:     amount,
		CntrctDate:    r.str("cntrctDate"),
		CorpNm:        r.str("corpNm"),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
