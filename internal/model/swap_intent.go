package model

import (
	"math/big"
)

// VariantKind groups router swap methods by which side of the trade is the
// native currency.
type VariantKind string

const (
	VariantNativeIn     VariantKind = "native_in"
	VariantNativeOut    VariantKind = "native_out"
	VariantTokenToToken VariantKind = "token_to_token"
)

// SwapIntent is the decoded result of a router swap call. Produced once per
// successfully decoded RawPendingTx and discarded after classification.
type SwapIntent struct {
	Selector     [4]byte
	Method       string
	Variant      VariantKind
	Path         []string
	AmountIn     *big.Int
	AmountOutMin *big.Int
	Deadline     *big.Int
	Recipient    string
}
