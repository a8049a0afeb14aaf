package config

// Config holds all runtime configuration for the tracker.
type Config struct {
	DBName        string
	MigrationsDir string
	Turso         TursoConfig
}

// TursoConfig holds the optional remote database settings. When
// PrimaryURL is empty the tracker runs against a local SQLite file.
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
