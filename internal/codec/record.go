package codec

import (
	"encoding/binary"
	"math"

	"main/internal/schema"
)

const OrderRecordPayloadSize = 54

// EncodeOrderRecord serializes an order record into a fixed-size payload.
func EncodeOrderRecord(dst []byte, rec schema.OrderRecord) []byte {
	if cap(dst) < OrderRecordPayloadSize {
		dst = make([]byte, OrderRecordPayloadSize)
	} else {
		dst = dst[:OrderRecordPayloadSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], rec.Seq)
	binary.LittleEndian.PutUint64(dst[8:16], rec.OrderRef)
	binary.LittleEndian.PutUint16(dst[16:18], uint16(rec.Side))
	binary.LittleEndian.PutUint32(dst[18:22], rec.Price)
	binary.LittleEndian.PutUint32(dst[22:26], rec.Shares)
	binary.LittleEndian.PutUint32(dst[26:30], rec.BestBid)
	binary.LittleEndian.PutUint32(dst[30:34], rec.BestAsk)
	binary.LittleEndian.PutUint16(dst[34:36], uint16(rec.Action))
	binary.LittleEndian.PutUint64(dst[36:44], math.Float64bits(rec.Confidence))
	var matched uint16
	if rec.Matched {
		matched = 1
	}
	binary.LittleEndian.PutUint16(dst[44:46], matched)
	binary.LittleEndian.PutUint32(dst[46:50], rec.MatchPrice)
	binary.LittleEndian.PutUint32(dst[50:54], rec.MatchQty)

	return dst
}

// DecodeOrderRecord parses a fixed-size order record payload.
func DecodeOrderRecord(src []byte) (schema.OrderRecord, bool) {
	if len(src) < OrderRecordPayloadSize {
		return schema.OrderRecord{}, false
	}
	return schema.OrderRecord{
		Seq:        binary.LittleEndian.Uint64(src[0:8]),
		OrderRef:   binary.LittleEndian.Uint64(src[8:16]),
		Side:       schema.Side(binary.LittleEndian.Uint16(src[16:18])),
		Price:      binary.LittleEndian.Uint32(src[18:22]),
		Shares:     binary.LittleEndian.Uint32(src[22:26]),
		BestBid:    binary.LittleEndian.Uint32(src[26:30]),
		BestAsk:    binary.LittleEndian.Uint32(src[30:34]),
		Action:     schema.TradeAction(binary.LittleEndian.Uint16(src[34:36])),
		Confidence: math.Float64frombits(binary.LittleEndian.Uint64(src[36:44])),
		Matched:    binary.LittleEndian.Uint16(src[44:46]) != 0,
		MatchPrice: binary.LittleEndian.Uint32(src[46:50]),
		MatchQty:   binary.LittleEndian.Uint32(src[50:54]),
	}, true
}
