package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCalldataRecordJSONRoundTrip(t *testing.T) {
	original := CalldataRecord{
		BlockNumber: 21000000,
		TxHash:      "0xdef456",
		Input:       "0x09c5eabe",
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded CalldataRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestCalldataRecordDataAlias(t *testing.T) {
	var decoded CalldataRecord
	if err := json.Unmarshal([]byte(`{"tx_hash":"0x01","data":"0x09c5eabe"}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Input != "0x09c5eabe" || decoded.TxHash != "0x01" {
		t.Fatalf("alias not applied: %+v", decoded)
	}

	if err := json.Unmarshal([]byte(`{"input":"0xaa","data":"0xbb"}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Input != "0xaa" {
		t.Fatalf("input should win over data: %+v", decoded)
	}
}
