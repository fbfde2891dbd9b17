package model

import (
	"time"
)

// Direction classifies a swap relative to the native currency.
type Direction string

const (
	DirectionBuy     Direction = "buy"
	DirectionSell    Direction = "sell"
	DirectionSwap    Direction = "swap"
	DirectionUnknown Direction = "unknown"
)

// ClassifiedEvent is the unit handed to the emitter: one per distinct tx hash
// within the dedup ledger's retention window.
type ClassifiedEvent struct {
	TxHash       string    `json:"tx_hash"`
	Direction    Direction `json:"direction"`
	TokenAddress string    `json:"token_address"`
	TokenSymbol  string    `json:"token_symbol"`
	TokenName    string    `json:"token_name"`
	NativeWei    string    `json:"native_wei"`
	Sender       string    `json:"sender"`
	ObservedAt   time.Time `json:"observed_at"`
}
