package model

import (
	"time"
)

// UnknownToken is the sentinel used when metadata cannot be resolved.
const UnknownToken = "UNKNOWN"

// TokenMetadata is a resolver cache record. Found=false entries are cached
// too, so unresolvable addresses do not trigger repeated lookups.
type TokenMetadata struct {
	Address    string    `json:"address"`
	Symbol     string    `json:"symbol"`
	Name       string    `json:"name"`
	Found      bool      `json:"found"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// UnknownTokenMetadata builds a negative cache record for an address.
func UnknownTokenMetadata(address string, at time.Time) TokenMetadata {
	return TokenMetadata{
		Address:    address,
		Symbol:     UnknownToken,
		Name:       "Unknown Token",
		Found:      false,
		ResolvedAt: at,
	}
}
