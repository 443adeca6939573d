package model

// DecodeError records a decode failure for an input line.
type DecodeError struct {
	Line        int    `json:"line"`
	BlockNumber uint64 `json:"block_number"`
	TxHash      string `json:"tx_hash"`
	Selector    string `json:"selector"`
	Error       string `json:"error"`
}
