package model

import (
	"math/big"
	"strings"
	"time"
)

// RawPendingTx is the normalized representation of a pending transaction as
// observed on the wire. It is immutable once built; the pipeline never
// mutates it.
type RawPendingTx struct {
	Hash       string    `json:"hash"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Value      string    `json:"value"`
	Input      string    `json:"input"`
	Gas        uint64    `json:"gas,omitempty"`
	GasPrice   string    `json:"gas_price,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// ValueWei parses the attached native amount. Accepts decimal and 0x-hex
// encodings; anything unparsable reads as zero.
func (tx RawPendingTx) ValueWei() *big.Int {
	raw := strings.TrimSpace(tx.Value)
	if raw == "" {
		return new(big.Int)
	}

	base := 10
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		raw = raw[2:]
		base = 16
	}

	value, ok := new(big.Int).SetString(raw, base)
	if !ok || value.Sign() < 0 {
		return new(big.Int)
	}
	return value
}
