// Package schema provides database models of the import history.
// Models carry GORM tags for AutoMigrate and db/ddl tags for plain
// DDL generation.
package schema

import (
	"database/sql"
	"time"
)

// DDLGenerator defines how Go models generate PostgreSQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the PostgreSQL table name for this model.
	TableName() string
}

// ImportAttempt is one run of the normalizer over a dataset.
type ImportAttempt struct {
	// ID is a random UUID of the attempt.
	ID string `db:"id" ddl:"UUID PRIMARY KEY" gorm:"type:uuid;primaryKey"`

	// DatasetKey identifies the dataset in datasets.yaml.
	DatasetKey string `db:"dataset_key" ddl:"VARCHAR(100) NOT NULL" gorm:"type:varchar(100);not null;uniqueIndex:idx_attempt_number,priority:1"`

	// Number is the sequence number of the attempt for its dataset,
	// starting at 1.
	Number int `db:"number" ddl:"INTEGER NOT NULL" gorm:"not null;uniqueIndex:idx_attempt_number,priority:2"`

	// State is RUNNING, SUCCEEDED, FAILED or CANCELED.
	State string `db:"state" ddl:"VARCHAR(20) NOT NULL" gorm:"type:varchar(20);not null"`

	StartedAt  time.Time    `db:"started_at" ddl:"TIMESTAMP NOT NULL" gorm:"not null"`
	FinishedAt sql.NullTime `db:"finished_at" ddl:"TIMESTAMP"`

	// Error is the message of a failed attempt.
	Error string `db:"error" ddl:"TEXT" gorm:"type:text"`

	// Summary is the JSON encoded normalization summary.
	Summary string `db:"summary" ddl:"TEXT" gorm:"type:text"`
}

// DatasetImport points to the current attempt of a dataset, which is
// its latest successful one.
type DatasetImport struct {
	DatasetKey       string    `db:"dataset_key" ddl:"VARCHAR(100) PRIMARY KEY" gorm:"type:varchar(100);primaryKey"`
	CurrentAttemptID string    `db:"current_attempt_id" ddl:"UUID NOT NULL" gorm:"type:uuid;not null"`
	UpdatedAt        time.Time `db:"updated_at" ddl:"TIMESTAMP NOT NULL" gorm:"not null"`
}
