package common

import "time"

// CacheInterface is the process-local cache used for login throttling state
// and per-session list views. Values are live Go objects.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Add stores a value only if the key is absent or expired
	Add(key string, value interface{}, duration time.Duration) error

	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(prefix string)
}
