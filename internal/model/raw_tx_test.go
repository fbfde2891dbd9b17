package model

import (
	"testing"
)

func TestValueWei(t *testing.T) {
	cases := map[string]string{
		"100000000000000000": "100000000000000000",
		"0x16345785d8a0000":  "100000000000000000",
		"0X10":               "16",
		"":                   "0",
		"  42  ":             "42",
		"not-a-number":       "0",
		"-5":                 "0",
		"0x":                 "0",
	}
	for in, want := range cases {
		tx := RawPendingTx{Value: in}
		if got := tx.ValueWei().String(); got != want {
			t.Fatalf("ValueWei(%q) = %s, want %s", in, got, want)
		}
	}
}
