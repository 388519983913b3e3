// Package substitute produces stand-in payloads used when the upstream
// procurement API cannot be reached. Output is fixed per kind so that a
// fallback delivery is reproducible.
package substitute

import (
	"fmt"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
	"github.com/shopspring/decimal"
)

const totalCount = 2

var samples = map[model.DataKind][]model.Item{
	model.KindBidNotice: {
		mustItem(model.NewBidNotice(model.BidNotice{
			BidNtceNo:         "20240100001",
			BidNtceOrd:        "00",
			BidNtceNm:         "Integrated facility management system build-out",
			NtceInsttNm:       "Public Procurement Service",
			DminsttNm:         "Seoul Metropolitan Government",
			BidMethdNm:        "Electronic bidding",
			CntrctCnclsMthdNm: "Limited competition",
			PresmptPrce:       decimal.NewFromInt(150000000),
			BidNtceDt:         "2024-01-15 10:00:00",
			BidClseDt:         "2024-01-25 18:00:00",
			OpengDt:           "2024-01-26 11:00:00",
		})),
		mustItem(model.NewBidNotice(model.BidNotice{
			BidNtceNo:         "20240100002",
			BidNtceOrd:        "00",
			BidNtceNm:         "Office network equipment replacement",
			NtceInsttNm:       "Public Procurement Service",
			DminsttNm:         "Busan Metropolitan City",
			BidMethdNm:        "Electronic bidding",
			CntrctCnclsMthdNm: "General competition",
			PresmptPrce:       decimal.NewFromInt(48000000),
			BidNtceDt:         "2024-01-16 09:30:00",
			BidClseDt:         "2024-01-26 17:00:00",
			OpengDt:           "2024-01-29 10:00:00",
		})),
	},
	model.KindPreNotice: {
		mustItem(model.NewPreNotice(model.PreNotice{
			BfSpecRgstNo:    "R24BK00000001",
			PrdctClsfcNoNm:  "Cloud-based document management service",
			OrderInsttNm:    "Public Procurement Service",
			RlDminsttNm:     "Ministry of the Interior and Safety",
			AsignBdgtAmt:    decimal.NewFromInt(320000000),
			RcptDt:          "2024-01-10 09:00:00",
			OpninRgstClseDt: "2024-01-17 18:00:00",
		})),
		mustItem(model.NewPreNotice(model.PreNotice{
			BfSpecRgstNo:    "R24BK00000002",
			PrdctClsfcNoNm:  "Smart parking guidance system",
			OrderInsttNm:    "Public Procurement Service",
			RlDminsttNm:     "Incheon Metropolitan City",
			AsignBdgtAmt:    decimal.NewFromInt(95000000),
			RcptDt:          "2024-01-11 14:00:00",
			OpninRgstClseDt: "2024-01-18 18:00:00",
		})),
	},
	model.KindContract: {
		mustItem(model.NewContract(model.Contract{
			CntrctNo:      "CT20240001",
			CntrctNm:      "Integrated facility management system build-out",
			CntrctInsttNm: "Seoul Metropolitan Government",
			CntrctMthdNm:  "Limited competition",
			CntrctAmt:     decimal.NewFromInt(142500000),
			CntrctDate:    "2024-02-05",
			CorpNm:        "Hanbit Systems Co., Ltd.",
		})),
		mustItem(model.NewContract(model.Contract{
			CntrctNo:      "CT20240002",
			CntrctNm:      "Office network equipment replacement",
			CntrctInsttNm: "Busan Metropolitan City",
			CntrctMthdNm:  "General competition",
			CntrctAmt:     decimal.NewFromInt(45600000),
			CntrctDate:    "2024-02-07",
			CorpNm:        "Daon Network Inc.",
		})),
	},
}

// Generate returns the substitute payload for kind. It never fails for a
// known kind; an unknown kind yields an empty page.
func Generate(kind model.DataKind) model.Payload {
	sample := samples[kind]
	items := make([]model.Item, len(sample))
	copy(items, sample)

	total, rows := totalCount, len(items)
	if rows == 0 {
		total, rows = 0, 1
	}
	return model.Payload{
		Kind:       kind,
		TotalCount: total,
		PageNo:     1,
		NumOfRows:  rows,
		Items:      items,
	}
}

func mustItem[T model.Item](item T, err error) model.Item {
	if err != nil {
		panic(fmt.Sprintf("substitute sample: %v", err))
	}
	return item
}
