package config

import (
	"context"
	"fmt"

	"github.com/Sternrassler/renewables-client/pkg/client"
	"github.com/Sternrassler/renewables-client/pkg/logging"
	"github.com/Sternrassler/renewables-client/pkg/plant"
	"github.com/Sternrassler/renewables-client/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
)

// Session is a fetcher built from a Config together with the resources it
// owns.
type Session struct {
	Client  *client.Client
	Options plant.ProfileOptions

	// Tracker is nil when REDIS_URL is empty.
	Tracker *ratelimit.Tracker

	redis *redis.Client
}

// NewSession creates the fetcher described by c. An empty token list is
// allowed; such a session can only serve cached responses.
func (c *Config) NewSession() (*Session, error) {
	logger := logging.NewLogger("session")

	pool := c.Pool()
	if pool.Len() == 0 {
		logger.Warn().Msg("RES_NINJA_TOKENS is empty, only cached responses can be served")
	}

	clientCfg := client.DefaultConfig(pool)
	clientCfg.CacheSize = c.CacheSize
	clientCfg.Debug = c.Debug
	clientCfg.Pacer = c.Pacer()

	s := &Session{
		Options: plant.ProfileOptions{BaseURL: c.BaseURL},
	}

	rdb, err := c.Redis()
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		s.redis = rdb
		s.Tracker = ratelimit.NewTracker(rdb, logging.NewLogger("credential-tracker"))
		clientCfg.Recorder = s.Tracker
	}

	s.Client, err = client.New(clientCfg)
	if err != nil {
		s.closeRedis()
		return nil, fmt.Errorf("create client: %w", err)
	}

	logger.Debug().
		Int("credentials", pool.Len()).
		Int("cache_size", c.CacheSize).
		Bool("redis", rdb != nil).
		Msg("Session ready")

	return s, nil
}

// Ping checks the redis connection. It returns nil when statistics are
// disabled.
func (s *Session) Ping(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Ping(ctx).Err()
}

// Close releases the client and the redis connection.
func (s *Session) Close() error {
	err := s.Client.Close()
	if rerr := s.closeRedis(); err == nil {
		err = rerr
	}
	return err
}

func (s *Session) closeRedis() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}
