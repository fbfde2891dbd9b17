package dex

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"mempoolScope/internal/model"
)

// Classifier maps a decoded swap intent to a trade direction relative to the
// native currency. Pure and deterministic.
type Classifier struct {
	wrappedNative common.Address
}

// NewClassifier builds a classifier for the chain's wrapped-native token.
func NewClassifier(wrappedNative common.Address) *Classifier {
	return &Classifier{wrappedNative: wrappedNative}
}

// Classify applies the direction decision table, first match wins:
// native-in with value attached is a buy, native-out is a sell, a path that
// touches the wrapped-native token on neither end is a token-to-token swap,
// and everything else is unknown. Always returns exactly one direction.
func (c *Classifier) Classify(intent model.SwapIntent, nativeValue *big.Int) model.Direction {
	switch {
	case intent.Variant == model.VariantNativeIn && nativeValue != nil && nativeValue.Sign() > 0:
		return model.DirectionBuy
	case intent.Variant == model.VariantNativeOut:
		return model.DirectionSell
	case !c.touchesWrappedNative(intent.Path):
		return model.DirectionSwap
	default:
		return model.DirectionUnknown
	}
}

// TokenOf picks the token address reported for a classified swap: the bought
// token for buys (path exit), the sold token for sells and token-to-token
// swaps (path entry), and the non-native endpoint otherwise.
func (c *Classifier) TokenOf(intent model.SwapIntent, direction model.Direction) string {
	first := intent.Path[0]
	last := intent.Path[len(intent.Path)-1]

	switch direction {
	case model.DirectionBuy:
		return last
	case model.DirectionSell, model.DirectionSwap:
		return first
	default:
		if common.HexToAddress(first) == c.wrappedNative {
			return last
		}
		return first
	}
}

func (c *Classifier) touchesWrappedNative(path []string) bool {
	if len(path) == 0 {
		return false
	}
	first := common.HexToAddress(path[0])
	last := common.HexToAddress(path[len(path)-1])
	return first == c.wrappedNative || last == c.wrappedNative
}
