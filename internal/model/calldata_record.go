package model

import (
	"encoding/json"
)

// CalldataRecord is one batch input line: a settlement transaction's calldata
// with optional chain context.
type CalldataRecord struct {
	BlockNumber uint64 `json:"block_number"`
	TxHash      string `json:"tx_hash"`
	Input       string `json:"input"`
}

// UnmarshalJSON decodes a CalldataRecord, accepting "data" as an alias for
// "input" the way some RPC dumps name the field.
func (r *CalldataRecord) UnmarshalJSON(data []byte) error {
	type Alias CalldataRecord
	var a struct {
		Alias
		Data string `json:"data"`
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = CalldataRecord(a.Alias)
	if r.Input == "" {
		r.Input = a.Data
	}
	return nil
}
