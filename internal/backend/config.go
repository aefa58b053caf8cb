package backend

// Config holds connection settings for the CRUD backend.
type Config struct {
	BaseURL        string
	Token          string
	TimeoutMs      int
	MaxRetries     int
	RetryBackoffMs int
	HealthPath     string

	// CacheSize bounds the GET response cache; zero disables it.
	CacheSize       int
	CacheTTLSeconds int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:8000",
		TimeoutMs:       10000,
		MaxRetries:      2,
		RetryBackoffMs:  250,
		HealthPath:      "/up",
		CacheSize:       128,
		CacheTTLSeconds: 30,
	}
}
