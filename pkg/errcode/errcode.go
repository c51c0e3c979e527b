package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	WriteFileError
	ReadFileError
	RemoveDirError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBQueryError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError

	// Datasets registry errors
	DatasetsConfigError
	DatasetNotFoundError
	DatasetFetchError
	DatasetUnzipError

	// Archive errors
	ArchiveDirError
	ArchiveFormatError
	ArchiveMissingFileError
	ArchiveReadError
	ArchiveMetaError

	// Graph errors
	GraphClosedError
	GraphNodeNotFoundError

	// Normalizer errors
	NormalizeInsertError
	NormalizeParseError
	NormalizeLinkError
	NormalizeBasionymError
	NormalizeCheckError
	NormalizeCanceledError

	// Checkpoint store errors
	StoreOpenError
	StoreWriteError
	StoreReadError

	// Export errors
	ExportOpenError
	ExportWriteError

	// Scheduler errors
	SchedulerClosedError
	SchedulerTimeoutError
	SchedulerSubmitError
	SchedulerCronError

	// History errors
	HistoryWriteError
	HistoryReadError

	// Metrics errors
	MetricsServeError

	// Command line errors
	InvalidFlagError
)
