package notify

import (
	"strings"
	"testing"
	"time"

	"mempoolScope/internal/model"
)

func TestFormatBuyMessage(t *testing.T) {
	event := model.ClassifiedEvent{
		TxHash:       "0x92b21e0c9c166b8b1e38a90e0fe4abc23ea13c1fbb4d935c4c1cdd1dfb4b1111",
		Direction:    model.DirectionBuy,
		TokenAddress: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		TokenSymbol:  "PEPE",
		TokenName:    "Pepe",
		NativeWei:    "100000000000000000",
		Sender:       "0x3333333333333333333333333333333333333333",
		ObservedAt:   time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC),
	}

	text := Format(event)

	for _, want := range []string{
		"🟢 *BUY*",
		"🏷️ *Token:* Pepe (PEPE)",
		"📄 *Contract:* `0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa`",
		"💰 *Amount:* 0.1000 ETH",
		"👤 *From:* `0x3333…3333`",
		"🔗 *Tx:* `0x92b2…1111`",
		"📊 [DexView](https://dexview.com/eth/0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa)",
		"🔍 [Etherscan](https://etherscan.io/tx/0x92b21e0c9c166b8b1e38a90e0fe4abc23ea13c1fbb4d935c4c1cdd1dfb4b1111)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("message missing %q:\n%s", want, text)
		}
	}
}

func TestFormatDirectionHeaders(t *testing.T) {
	cases := map[model.Direction]string{
		model.DirectionBuy:     "🟢 *BUY*",
		model.DirectionSell:    "🔴 *SELL*",
		model.DirectionSwap:    "🔁 *SWAP*",
		model.DirectionUnknown: "⚪ *UNKNOWN*",
	}
	for direction, want := range cases {
		text := Format(model.ClassifiedEvent{Direction: direction, NativeWei: "0"})
		if !strings.HasPrefix(text, want) {
			t.Fatalf("direction %s: expected prefix %q, got %q", direction, want, text[:20])
		}
	}
}

func TestFormatUnknownTokenFallback(t *testing.T) {
	event := model.ClassifiedEvent{
		Direction:   model.DirectionSell,
		TokenSymbol: model.UnknownToken,
		NativeWei:   "0",
	}
	if text := Format(event); !strings.Contains(text, "Unknown Token (UNKNOWN)") {
		t.Fatalf("missing unknown-token fallback:\n%s", text)
	}
}

func TestTruncate(t *testing.T) {
	cases := map[string]string{
		"0x92b21e0c9c166b8b1e38a90e0fe4abc2": "0x92b2…abc2",
		"0x12345678":                         "0x12345678",
		"":                                   "",
	}
	for in, want := range cases {
		if got := Truncate(in); got != want {
			t.Fatalf("Truncate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatNative(t *testing.T) {
	cases := map[string]string{
		"1000000000000000000": "1.0000",
		"100000000000000000":  "0.1000",
		"1234567890123456789": "1.2346",
		"1":                   "0.0000",
		"0":                   "0.0000",
		"not-a-number":        "0.0000",
		"":                    "0.0000",
	}
	for in, want := range cases {
		if got := FormatNative(in); got != want {
			t.Fatalf("FormatNative(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatShutdownCounters(t *testing.T) {
	text := FormatShutdown(model.PipelineStats{
		TotalTransactions: 120,
		SuccessfulParses:  7,
		FailedParses:      2,
		NotificationsSent: 6,
	})

	for _, want := range []string{
		"🛑 *MEMPOOL MONITOR STOPPED*",
		"• Transactions observed: 120",
		"• Swaps parsed: 7",
		"• Parse failures: 2",
		"• Notifications sent: 6",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("shutdown banner missing %q:\n%s", want, text)
		}
	}
}
