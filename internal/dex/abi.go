package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"mempoolScope/internal/model"
)

const v2RouterABIJSON = `[
  {
    "inputs": [
      {"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "swapExactETHForTokens",
    "outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "amountOut", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "swapETHForExactTokens",
    "outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "swapExactETHForTokensSupportingFeeOnTransferTokens",
    "outputs": [],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "amountIn", "type": "uint256"},
      {"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "swapExactTokensForETH",
    "outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "amountOut", "type": "uint256"},
      {"internalType": "uint256", "name": "amountInMax", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "swapTokensForExactETH",
    "outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "amountIn", "type": "uint256"},
      {"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "swapExactTokensForETHSupportingFeeOnTransferTokens",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "amountIn", "type": "uint256"},
      {"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "swapExactTokensForTokens",
    "outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "amountOut", "type": "uint256"},
      {"internalType": "uint256", "name": "amountInMax", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "swapTokensForExactTokens",
    "outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "amountIn", "type": "uint256"},
      {"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "swapExactTokensForTokensSupportingFeeOnTransferTokens",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var (
	v2RouterABI     abi.ABI
	v2RouterABIOnce sync.Once
	v2RouterABIErr  error
)

// V2RouterABI returns the parsed V2 router swap-method ABI.
func V2RouterABI() (abi.ABI, error) {
	v2RouterABIOnce.Do(func() {
		v2RouterABI, v2RouterABIErr = abi.JSON(strings.NewReader(v2RouterABIJSON))
	})
	return v2RouterABI, v2RouterABIErr
}

// methodLayout fixes the argument order for one router swap variant. Argument
// indexes refer to the unpacked input tuple; AmountInArg is -1 for native-in
// variants where the spent amount rides on the transaction value.
type methodLayout struct {
	Name         string
	Variant      model.VariantKind
	AmountInArg  int
	AmountOutArg int
	PathArg      int
	ToArg        int
	DeadlineArg  int
}

// swapLayouts is the closed set of supported selectors. Selectors outside this
// table decode as malformed, never as a silent fallthrough.
var swapLayouts = []methodLayout{
	// 0x7ff36ab5
	{Name: "swapExactETHForTokens", Variant: model.VariantNativeIn, AmountInArg: -1, AmountOutArg: 0, PathArg: 1, ToArg: 2, DeadlineArg: 3},
	// 0xfb3bdb41
	{Name: "swapETHForExactTokens", Variant: model.VariantNativeIn, AmountInArg: -1, AmountOutArg: 0, PathArg: 1, ToArg: 2, DeadlineArg: 3},
	// 0xb6f9de95
	{Name: "swapExactETHForTokensSupportingFeeOnTransferTokens", Variant: model.VariantNativeIn, AmountInArg: -1, AmountOutArg: 0, PathArg: 1, ToArg: 2, DeadlineArg: 3},
	// 0x18cbafe5
	{Name: "swapExactTokensForETH", Variant: model.VariantNativeOut, AmountInArg: 0, AmountOutArg: 1, PathArg: 2, ToArg: 3, DeadlineArg: 4},
	// 0x4a25d94a
	{Name: "swapTokensForExactETH", Variant: model.VariantNativeOut, AmountInArg: 1, AmountOutArg: 0, PathArg: 2, ToArg: 3, DeadlineArg: 4},
	// 0x791ac947
	{Name: "swapExactTokensForETHSupportingFeeOnTransferTokens", Variant: model.VariantNativeOut, AmountInArg: 0, AmountOutArg: 1, PathArg: 2, ToArg: 3, DeadlineArg: 4},
	// 0x38ed1739
	{Name: "swapExactTokensForTokens", Variant: model.VariantTokenToToken, AmountInArg: 0, AmountOutArg: 1, PathArg: 2, ToArg: 3, DeadlineArg: 4},
	// 0x8803dbee
	{Name: "swapTokensForExactTokens", Variant: model.VariantTokenToToken, AmountInArg: 1, AmountOutArg: 0, PathArg: 2, ToArg: 3, DeadlineArg: 4},
	// 0x5c11d795
	{Name: "swapExactTokensForTokensSupportingFeeOnTransferTokens", Variant: model.VariantTokenToToken, AmountInArg: 0, AmountOutArg: 1, PathArg: 2, ToArg: 3, DeadlineArg: 4},
}
