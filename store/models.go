// Package store is the block-versioned read store (C6): one gorm-backed
// table per entity class plus a blocks table, each row carrying an
// explicit [startBlockNum, endBlockNum) interval. The block-versioned
// tables are populated exclusively by the ledger-sync pipeline and read
// by the HTTP façade's query routes; the one table request handling
// writes is IdempotencyKeyRow, via the façade's idempotency middleware.
package store

import (
	"time"

	"gorm.io/gorm"
)

// MaxBlockNum marks a row as currently live — "open until superseded".
// It is the largest value a signed 64-bit column holds, so SQL drivers
// accept it as a parameter.
const MaxBlockNum = ^uint64(0) >> 1

// Block records one committed block observed by the sync pipeline.
type Block struct {
	ID            uint   `gorm:"primaryKey"`
	BlockNum      uint64 `gorm:"uniqueIndex"`
	BlockID       string
	StateRootHash string
	ObservedAt    time.Time
}

// AgentRow is the read-store projection of wire.Agent.
type AgentRow struct {
	ID            uint   `gorm:"primaryKey"`
	PublicKey     string `gorm:"index:idx_agent_live"`
	Name          string
	Timestamp     uint64
	StartBlockNum uint64 `gorm:"index:idx_agent_live"`
	EndBlockNum   uint64 `gorm:"index:idx_agent_live"`
}

// RecordTypeRow is the read-store projection of wire.RecordType.
// PropertiesJSON carries the marshaled []wire.PropertySchema, since the
// read store treats a record type's schema as an opaque document.
type RecordTypeRow struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"index:idx_recordtype_live"`
	PropertiesJSON string
	StartBlockNum  uint64 `gorm:"index:idx_recordtype_live"`
	EndBlockNum    uint64 `gorm:"index:idx_recordtype_live"`
}

// RecordRow is the read-store projection of wire.Record.
type RecordRow struct {
	ID            uint   `gorm:"primaryKey"`
	RecordID      string `gorm:"index:idx_record_live"`
	RecordType    string
	Owner         string
	Custodian     string
	Final         bool
	StartBlockNum uint64 `gorm:"index:idx_record_live"`
	EndBlockNum   uint64 `gorm:"index:idx_record_live"`
}

// PropertyRow is the read-store projection of wire.Property.
type PropertyRow struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"index:idx_property_live"`
	RecordID        string `gorm:"index:idx_property_live"`
	DataType        uint8
	CurrentPage     uint32
	Wrapped         bool
	ReportersJSON   string
	Fixed           bool
	NumberExponent  int32
	EnumOptionsJSON string
	StructJSON      string
	Unit            string
	StartBlockNum   uint64 `gorm:"index:idx_property_live"`
	EndBlockNum     uint64 `gorm:"index:idx_property_live"`
}

// PropertyPageRow is the enriched read-store projection of
// wire.PropertyPage — ReportsJSON carries enum/struct-enriched reports,
// not the raw wire encoding.
type PropertyPageRow struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"index:idx_page_live"`
	RecordID      string `gorm:"index:idx_page_live"`
	PageNum       uint32 `gorm:"index:idx_page_live"`
	ReportsJSON   string
	StartBlockNum uint64 `gorm:"index:idx_page_live"`
	EndBlockNum   uint64 `gorm:"index:idx_page_live"`
}

// ProposalRow is the read-store projection of wire.Proposal.
type ProposalRow struct {
	ID              uint   `gorm:"primaryKey"`
	RecordID        string `gorm:"index:idx_proposal_live"`
	Timestamp       uint64 `gorm:"index:idx_proposal_live"`
	ReceivingAgent  string `gorm:"index:idx_proposal_live"`
	Role            uint8  `gorm:"index:idx_proposal_live"`
	IssuingAgent    string
	PropertiesJSON  string
	Status          uint8
	Terms           string
	StartBlockNum   uint64 `gorm:"index:idx_proposal_live"`
	EndBlockNum     uint64 `gorm:"index:idx_proposal_live"`
}

// IdempotencyKeyRow records the first response served for a given
// client-supplied Idempotency-Key on the HTTP façade's submit route, so
// a retried request replays that response instead of resubmitting the
// batch.
type IdempotencyKeyRow struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"uniqueIndex"`
	RequestID string
	Method    string
	Path      string
	Status    int
	Response  string
	CreatedAt time.Time
}

// AutoMigrate creates or updates every table this package owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Block{},
		&AgentRow{},
		&RecordTypeRow{},
		&RecordRow{},
		&PropertyRow{},
		&PropertyPageRow{},
		&ProposalRow{},
		&IdempotencyKeyRow{},
	)
}
