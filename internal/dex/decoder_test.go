package dex

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"mempoolScope/internal/model"
)

var (
	testRouter = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	testWETH   = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	testToken  = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testOther  = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	testTrader = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func TestDecodeNativeInSwap(t *testing.T) {
	decoder, err := NewDecoder(testRouter)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	input := packCall(t, "swapExactETHForTokens",
		big.NewInt(5000),
		[]common.Address{testWETH, testToken},
		testTrader,
		big.NewInt(1700000000),
	)

	tx := model.RawPendingTx{
		Hash:  "0x01",
		To:    testRouter.Hex(),
		Value: "100000000000000000",
		Input: input,
	}

	intent, err := decoder.Decode(tx)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if intent.Method != "swapExactETHForTokens" {
		t.Fatalf("method mismatch: %s", intent.Method)
	}
	if intent.Variant != model.VariantNativeIn {
		t.Fatalf("variant mismatch: %s", intent.Variant)
	}
	if intent.AmountIn.String() != "100000000000000000" {
		t.Fatalf("amount in should come from tx value: %s", intent.AmountIn)
	}
	if intent.AmountOutMin.String() != "5000" {
		t.Fatalf("amount out mismatch: %s", intent.AmountOutMin)
	}
	if len(intent.Path) != 2 || intent.Path[0] != testWETH.Hex() || intent.Path[1] != testToken.Hex() {
		t.Fatalf("path mismatch: %v", intent.Path)
	}
	if intent.Recipient != testTrader.Hex() {
		t.Fatalf("recipient mismatch: %s", intent.Recipient)
	}
	if intent.Deadline.Int64() != 1700000000 {
		t.Fatalf("deadline mismatch: %s", intent.Deadline)
	}
}

func TestDecodeNativeOutSwap(t *testing.T) {
	decoder, err := NewDecoder(testRouter)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	input := packCall(t, "swapExactTokensForETH",
		big.NewInt(123456),
		big.NewInt(7777),
		[]common.Address{testToken, testWETH},
		testTrader,
		big.NewInt(1700000001),
	)

	intent, err := decoder.Decode(model.RawPendingTx{
		Hash:  "0x02",
		To:    testRouter.Hex(),
		Input: input,
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if intent.Variant != model.VariantNativeOut {
		t.Fatalf("variant mismatch: %s", intent.Variant)
	}
	if intent.AmountIn.String() != "123456" {
		t.Fatalf("amount in mismatch: %s", intent.AmountIn)
	}
	if intent.AmountOutMin.String() != "7777" {
		t.Fatalf("amount out mismatch: %s", intent.AmountOutMin)
	}
}

func TestDecodeExactOutArgumentOrder(t *testing.T) {
	decoder, err := NewDecoder(testRouter)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	// Exact-out variants carry amountOut first and amountInMax second.
	input := packCall(t, "swapTokensForExactTokens",
		big.NewInt(9000),
		big.NewInt(11000),
		[]common.Address{testToken, testOther},
		testTrader,
		big.NewInt(1700000002),
	)

	intent, err := decoder.Decode(model.RawPendingTx{
		Hash:  "0x03",
		To:    testRouter.Hex(),
		Input: input,
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if intent.Variant != model.VariantTokenToToken {
		t.Fatalf("variant mismatch: %s", intent.Variant)
	}
	if intent.AmountIn.String() != "11000" {
		t.Fatalf("amount in should map to amountInMax: %s", intent.AmountIn)
	}
	if intent.AmountOutMin.String() != "9000" {
		t.Fatalf("amount out should map to amountOut: %s", intent.AmountOutMin)
	}
}

func TestDecodeNotRouterCall(t *testing.T) {
	decoder, err := NewDecoder(testRouter)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	cases := []model.RawPendingTx{
		{Hash: "0x10", To: "", Input: "0x"},
		{Hash: "0x11", To: "not-an-address", Input: "0x"},
		{Hash: "0x12", To: testOther.Hex(), Input: "0x7ff36ab5"},
	}
	for _, tx := range cases {
		if _, err := decoder.Decode(tx); !errors.Is(err, ErrNotRouterCall) {
			t.Fatalf("tx %s: expected ErrNotRouterCall, got %v", tx.Hash, err)
		}
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	decoder, err := NewDecoder(testRouter)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	valid := packCall(t, "swapExactETHForTokens",
		big.NewInt(1),
		[]common.Address{testWETH, testToken},
		testTrader,
		big.NewInt(1700000000),
	)

	cases := map[string]string{
		"bad hex":          "0xzz",
		"short input":      "0x7ff36a",
		"unknown selector": "0xdeadbeef" + valid[10:],
		"misaligned args":  valid[:len(valid)-2],
		"truncated args":   valid[:10+64],
	}
	for name, input := range cases {
		_, err := decoder.Decode(model.RawPendingTx{
			Hash:  "0x20",
			To:    testRouter.Hex(),
			Input: input,
		})
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", name, err)
		}
		if errors.Is(err, ErrNotRouterCall) {
			t.Fatalf("%s: malformed must not decode as not-router", name)
		}
	}
}

func TestDecodeSingleHopPathRejected(t *testing.T) {
	decoder, err := NewDecoder(testRouter)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	input := packCall(t, "swapExactETHForTokens",
		big.NewInt(1),
		[]common.Address{testWETH},
		testTrader,
		big.NewInt(1700000000),
	)

	_, err = decoder.Decode(model.RawPendingTx{
		Hash:  "0x30",
		To:    testRouter.Hex(),
		Input: input,
	})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for single-hop path, got %v", err)
	}
}

func TestDecodeDeterministic(t *testing.T) {
	decoder, err := NewDecoder(testRouter)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	input := packCall(t, "swapExactTokensForTokens",
		big.NewInt(42),
		big.NewInt(41),
		[]common.Address{testToken, testOther},
		testTrader,
		big.NewInt(1700000003),
	)
	tx := model.RawPendingTx{Hash: "0x40", To: testRouter.Hex(), Input: input}

	first, err := decoder.Decode(tx)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	second, err := decoder.Decode(tx)
	if err != nil {
		t.Fatalf("decode again: %v", err)
	}

	if first.Method != second.Method || first.AmountIn.Cmp(second.AmountIn) != 0 {
		t.Fatalf("decode not deterministic: %+v != %+v", first, second)
	}
}

func packCall(t *testing.T, method string, args ...interface{}) string {
	t.Helper()

	routerABI, err := V2RouterABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	m, ok := routerABI.Methods[method]
	if !ok {
		t.Fatalf("unknown method %s", method)
	}

	packed, err := m.Inputs.Pack(args...)
	if err != nil {
		t.Fatalf("pack %s: %v", method, err)
	}

	return hexutil.Encode(append(append([]byte{}, m.ID...), packed...))
}
