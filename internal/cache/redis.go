package cache

import (
	"errors"
	"fmt"
	"time"
	"tradedesk/internal/common"
	"tradedesk/internal/persistence"

	"github.com/go-redis/redis/v7"
)

type InitRedisOpts struct {
	RedisConnection *persistence.Redis
	ServiceLogs     chan<- common.ServiceLog
}

// InitRedis sets the process-wide cache to the provided redis connection
func InitRedis(opts InitRedisOpts) (*Redis, error) {
	if opts.RedisConnection == nil {
		return nil, fmt.Errorf("%w: no redis connection provided", ErrorNotAvailable)
	}
	serviceLogs := opts.ServiceLogs
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}
	output := &Redis{
		Client:      opts.RedisConnection.GetClient(),
		ServiceLogs: serviceLogs,
	}
	Init(output)
	return output, nil
}

type Redis struct {
	Client      *redis.Client
	ServiceLogs chan<- common.ServiceLog
}

func (r *Redis) Set(key string, value string, ttl time.Duration) error {
	status := r.Client.Set(key, value, ttl)
	if status.Err() != nil {
		return fmt.Errorf("failed to set key[%s]: %w", key, status.Err())
	}
	r.ServiceLogs <- common.ServiceLogf(common.LogLevelTrace, "set key[%s] with ttl[%s]", key, ttl)
	return nil
}

func (r *Redis) SetNX(key string, value string, ttl time.Duration) (bool, error) {
	response := r.Client.SetNX(key, value, ttl)
	if response.Err() != nil {
		return false, fmt.Errorf("failed to setnx key[%s]: %w", key, response.Err())
	}
	r.ServiceLogs <- common.ServiceLogf(common.LogLevelTrace, "setnx key[%s] applied: %v", key, response.Val())
	return response.Val(), nil
}

func (r *Redis) Get(key string) (string, error) {
	response := r.Client.Get(key)
	if err := response.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrorKeyNotFound
		}
		return "", fmt.Errorf("failed to get key[%s]: %w", key, err)
	}
	r.ServiceLogs <- common.ServiceLogf(common.LogLevelTrace, "got key[%s]", key)
	return response.Val(), nil
}

func (r *Redis) Scan(prefix string) ([]string, error) {
	var cursor uint64
	keys := []string{}
	for {
		page, nextCursor, err := r.Client.Scan(cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys[%s*]: %w", prefix, err)
		}
		keys = append(keys, page...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	r.ServiceLogs <- common.ServiceLogf(common.LogLevelTrace, "found %v keys[%s*]", len(keys), prefix)
	return keys, nil
}

func (r *Redis) Del(key string) error {
	response := r.Client.Unlink(key)
	if response.Err() != nil {
		return fmt.Errorf("failed to delete key[%s]: %w", key, response.Err())
	}
	r.ServiceLogs <- common.ServiceLogf(common.LogLevelTrace, "deleted key[%s] (%v removed)", key, response.Val())
	return nil
}
