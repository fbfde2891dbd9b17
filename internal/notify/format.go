package notify

import (
	"fmt"
	"math/big"
	"strings"

	"mempoolScope/internal/model"
)

const (
	dexViewLinkPattern   = "https://dexview.com/eth/%s"
	etherscanLinkPattern = "https://etherscan.io/tx/%s"
)

// Format renders a classified event as a notification message. Pure: the same
// event always renders the same text.
func Format(event model.ClassifiedEvent) string {
	emoji, label := directionHeader(event.Direction)

	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n\n", emoji, label)
	fmt.Fprintf(&b, "🏷️ *Token:* %s (%s)\n", tokenName(event), event.TokenSymbol)
	fmt.Fprintf(&b, "📄 *Contract:* `%s`\n", event.TokenAddress)
	fmt.Fprintf(&b, "💰 *Amount:* %s ETH\n", FormatNative(event.NativeWei))
	fmt.Fprintf(&b, "👤 *From:* `%s`\n", Truncate(event.Sender))
	fmt.Fprintf(&b, "🔗 *Tx:* `%s`\n", Truncate(event.TxHash))
	fmt.Fprintf(&b, "⏰ *Time:* %s\n\n", event.ObservedAt.Local().Format("15:04:05"))
	fmt.Fprintf(&b, "📊 [DexView]("+dexViewLinkPattern+")\n", event.TokenAddress)
	fmt.Fprintf(&b, "🔍 [Etherscan]("+etherscanLinkPattern+")", event.TxHash)

	return b.String()
}

// FormatStartup renders the session start banner.
func FormatStartup() string {
	return strings.Join([]string{
		"🤖 *MEMPOOL MONITOR STARTED*",
		"",
		"✅ Pending-transaction feed connected",
		"🎯 Watching V2 router swaps",
		"📱 Notifications armed",
	}, "\n")
}

// FormatShutdown renders the session stop banner with the final counters.
func FormatShutdown(stats model.PipelineStats) string {
	return strings.Join([]string{
		"🛑 *MEMPOOL MONITOR STOPPED*",
		"",
		"📊 Session stats:",
		fmt.Sprintf("• Transactions observed: %d", stats.TotalTransactions),
		fmt.Sprintf("• Swaps parsed: %d", stats.SuccessfulParses),
		fmt.Sprintf("• Parse failures: %d", stats.FailedParses),
		fmt.Sprintf("• Notifications sent: %d", stats.NotificationsSent),
	}, "\n")
}

// Truncate shortens an address or hash to its first6…last4 display form.
func Truncate(s string) string {
	if len(s) <= 10 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}

// FormatNative renders a wei amount as native units with four decimal places.
func FormatNative(wei string) string {
	value, ok := new(big.Int).SetString(strings.TrimSpace(wei), 10)
	if !ok {
		return "0.0000"
	}
	eth := new(big.Rat).SetFrac(value, big.NewInt(1e18))
	return eth.FloatString(4)
}

func directionHeader(direction model.Direction) (string, string) {
	switch direction {
	case model.DirectionBuy:
		return "🟢", "BUY"
	case model.DirectionSell:
		return "🔴", "SELL"
	case model.DirectionSwap:
		return "🔁", "SWAP"
	default:
		return "⚪", "UNKNOWN"
	}
}

func tokenName(event model.ClassifiedEvent) string {
	if event.TokenName != "" {
		return event.TokenName
	}
	return "Unknown Token"
}
