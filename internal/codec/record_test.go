package codec

import (
	"testing"

	"main/internal/schema"
)

func TestOrderRecordRoundTrip(t *testing.T) {
	orig := schema.OrderRecord{
		Seq:        3,
		OrderRef:   0xDEADBEEF,
		Side:       schema.SideSell,
		Price:      100050,
		Shares:     150,
		BestBid:    100000,
		BestAsk:    100100,
		Action:     schema.ActionSell,
		Confidence: 0.09375,
		Matched:    true,
		MatchPrice: 100050,
		MatchQty:   50,
	}

	encoded := EncodeOrderRecord(nil, orig)
	if len(encoded) != OrderRecordPayloadSize {
		t.Fatalf("payload size: got %d want %d", len(encoded), OrderRecordPayloadSize)
	}
	decoded, ok := DecodeOrderRecord(encoded)
	if !ok {
		t.Fatal("decode failed")
	}
	if decoded != orig {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, orig)
	}
}

func TestDecodeShortPayload(t *testing.T) {
	if _, ok := DecodeOrderRecord(make([]byte, OrderRecordPayloadSize-1)); ok {
		t.Fatal("short payload must not decode")
	}
}
