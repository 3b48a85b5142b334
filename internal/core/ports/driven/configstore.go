package driven

// ConfigStore provides access to persisted application configuration.
// Implementations handle persistence (e.g., TOML files) and type
// conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetFloat retrieves a numeric configuration value as float64.
	// Returns 0 and false if the key doesn't exist or isn't numeric.
	GetFloat(key string) (float64, bool)

	// Set stores a configuration value.
	Set(key string, value any)

	// Save persists the configuration.
	Save() error

	// Load reads the configuration from persistent storage.
	Load() error
}
