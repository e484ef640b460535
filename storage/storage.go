package storage

// Store is a key-value blob store for persisted application state. Save and
// Load are synchronous and idempotent; Load reports absence through its
// second return value rather than an error.
type Store interface {
	// Save writes value under key, replacing any previous value.
	Save(key, value string) error

	// Load reads the value stored under key. The boolean is false when
	// nothing has been saved under key.
	Load(key string) (string, bool, error)
}

// Well-known keys for persisted state.
const (
	KeyChats        = "chats"
	KeyAPIKey       = "api-key"
	KeyImageQuality = "image-quality"
	KeyImageSize    = "image-size"
)
