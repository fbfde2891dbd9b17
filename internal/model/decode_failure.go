package model

// DecodeFailure records a failed router call decode for a transaction.
type DecodeFailure struct {
	TxHash   string `json:"tx_hash"`
	To       string `json:"to"`
	Selector string `json:"selector"`
	Error    string `json:"error"`
}
