package cache

import (
	"errors"
	"time"
)

var instance Cache

var (
	ErrorKeyNotFound  = errors.New("key_not_found")
	ErrorNotAvailable = errors.New("cache_not_available")
)

type Cache interface {
	Set(key string, value string, ttl time.Duration) (err error)

	// SetNX stores value only when key does not exist yet and reports
	// whether it did
	SetNX(key string, value string, ttl time.Duration) (isSet bool, err error)
	Get(key string) (value string, err error)
	Scan(prefix string) (keys []string, err error)
	Del(key string) (err error)
}

// Init sets the process-wide cache used by Get
func Init(c Cache) {
	instance = c
}

func Get() Cache {
	return instance
}
