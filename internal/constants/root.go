package constants

const (
	AppName            = "habitown"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitown/habitown.db"
	DefaultEnvPath     = "~/.config/habitown/habitown.env"
	Version            = "v0.1.0"

	// Environment variables
	EnvConfig       = "HABITOWN_CONFIG"
	EnvDBConnection = "HABITOWN_DB_CONNECTION"
	EnvDebug        = "HABITOWN_DEBUG"
	EnvTestPostgres = "HABITOWN_TEST_POSTGRES"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitown-"
	BackupFileSuffix = ".db"

	// Persisted blob names and schema versions
	HabitBlobName    = "habit-tracker-storage"
	HabitBlobVersion = 1
	TownBlobName     = "town-storage"
	TownBlobVersion  = 1

	// ExportVersion is written into every export document.
	ExportVersion = "1.0.0"
)
