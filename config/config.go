package config

import (
	"fmt"
	"log"

	"imagequeue/shared/models"
	"imagequeue/storage"
)

// Config holds the user preferences: the API credential and the image
// generation options. All values are persisted individually through a
// storage.Store.
type Config struct {
	APIKey       string
	ImageQuality models.ImageQuality
	ImageSize    models.ImageSize
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		ImageQuality: models.QualityStandard,
		ImageSize:    models.SizeSquare,
	}
}

// Load reads preferences from the store, falling back to defaults for
// anything absent or invalid. Persisted quality/size values outside their
// enums are discarded and the defaults retained.
func Load(st storage.Store) *Config {
	cfg := DefaultConfig()

	if key, ok, err := st.Load(storage.KeyAPIKey); err != nil {
		log.Printf("Warning: failed to load API key: %v", err)
	} else if ok {
		cfg.APIKey = key
	}

	if value, ok, err := st.Load(storage.KeyImageQuality); err != nil {
		log.Printf("Warning: failed to load image quality: %v", err)
	} else if ok {
		if quality := models.ImageQuality(value); quality.Valid() {
			cfg.ImageQuality = quality
		}
	}

	if value, ok, err := st.Load(storage.KeyImageSize); err != nil {
		log.Printf("Warning: failed to load image size: %v", err)
	} else if ok {
		if size := models.ImageSize(value); size.Valid() {
			cfg.ImageSize = size
		}
	}

	return cfg
}

// Save writes all preferences to the store.
func (c *Config) Save(st storage.Store) error {
	if err := st.Save(storage.KeyAPIKey, c.APIKey); err != nil {
		return err
	}
	if err := st.Save(storage.KeyImageQuality, string(c.ImageQuality)); err != nil {
		return err
	}
	return st.Save(storage.KeyImageSize, string(c.ImageSize))
}

// Get retrieves a preference value by key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_key":
		return c.APIKey, nil
	case "image_quality":
		return string(c.ImageQuality), nil
	case "image_size":
		return string(c.ImageSize), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set updates a preference value by key, validating enum values.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_key":
		c.APIKey = value
		return nil
	case "image_quality":
		quality := models.ImageQuality(value)
		if !quality.Valid() {
			return fmt.Errorf("expected 'standard' or 'hd' for image_quality, got: %s", value)
		}
		c.ImageQuality = quality
		return nil
	case "image_size":
		size := models.ImageSize(value)
		if !size.Valid() {
			return fmt.Errorf("expected '1024x1024', '1024x1792' or '1792x1024' for image_size, got: %s", value)
		}
		c.ImageSize = size
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
