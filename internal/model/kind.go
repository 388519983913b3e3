package model

import (
	"fmt"
	"strings"
)

// DataKind identifies one of the procurement data categories the relay handles
type DataKind string

const (
	KindBidNotice DataKind = "bidNotice"
	KindPreNotice DataKind = "preNotice"
	KindContract  DataKind = "contract"
)

var allKinds = []DataKind{KindBidNotice, KindPreNotice, KindContract}

// AllKinds returns every DataKind in relay order
func AllKinds() []DataKind {
	kinds := make([]DataKind, len(allKinds))
	copy(kinds, allKinds)
	return kinds
}

// Valid reports whether k is one of the known kinds
func (k DataKind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k DataKind) String() string {
	return string(k)
}

// ParseDataKind accepts the wire value of a kind. Matching ignores case and
// also accepts the hyphenated form used in URLs (bid-notice).
func ParseDataKind(s string) (DataKind, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	for _, k := range allKinds {
		if strings.ToLower(string(k)) == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown data kind %q", s)
}
