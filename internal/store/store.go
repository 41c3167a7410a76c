package store

import (
	"main/internal/schema"
	"main/pkg/conn"
)

// OrderRow is the persisted form of one output record.
type OrderRow struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Seq        uint64 `gorm:"uniqueIndex"`
	OrderRef   uint64 `gorm:"index"`
	Side       string
	Price      uint32
	Shares     uint32
	BestBid    uint32
	BestAsk    uint32
	Action     string
	Confidence float64
	Matched    bool
	MatchPrice uint32
	MatchQty   uint32
}

// TableName keeps the table name stable across gorm naming strategies.
func (OrderRow) TableName() string {
	return "order_records"
}

// Store persists output records to PostgreSQL.
type Store struct {
	client *conn.Client
}

// Open connects and migrates the record table.
func Open(opt conn.Option) (*Store, error) {
	client, err := conn.New(opt)
	if err != nil {
		return nil, err
	}
	if err := client.DB().AutoMigrate(&OrderRow{}); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Store{client: client}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

// Append inserts one record.
func (s *Store) Append(rec schema.OrderRecord) error {
	row := toRow(rec)
	return s.client.DB().Create(&row).Error
}

// AppendBatch inserts a batch of records in one statement.
func (s *Store) AppendBatch(recs []schema.OrderRecord) error {
	if len(recs) == 0 {
		return nil
	}
	rows := make([]OrderRow, len(recs))
	for i, rec := range recs {
		rows[i] = toRow(rec)
	}
	return s.client.DB().CreateInBatches(rows, 500).Error
}

func toRow(rec schema.OrderRecord) OrderRow {
	return OrderRow{
		Seq:        rec.Seq,
		OrderRef:   rec.OrderRef,
		Side:       rec.Side.String(),
		Price:      rec.Price,
		Shares:     rec.Shares,
		BestBid:    rec.BestBid,
		BestAsk:    rec.BestAsk,
		Action:     rec.Action.String(),
		Confidence: rec.Confidence,
		Matched:    rec.Matched,
		MatchPrice: rec.MatchPrice,
		MatchQty:   rec.MatchQty,
	}
}
