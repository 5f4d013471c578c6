package storage

import (
	"time"

	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"

	"github.com/mkulima-ai/leafscan/internal/config"
)

// Service archives uploaded leaf images in Supabase storage and caches
// finished diagnoses in Redis, keyed by image content hash. Both are
// best-effort conveniences around the pipeline, not part of it.
type Service struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	bucket        string
	cacheDuration time.Duration
}

func New(cfg *config.Config) (*Service, error) {
	sbClient := storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return &Service{
		sbClient:      sbClient,
		redisClient:   redisClient,
		bucket:        cfg.Supabase.BUCKET,
		cacheDuration: cfg.Pipeline.CacheDuration,
	}, nil
}

// Redis exposes the shared client for other Redis-backed components.
func (s *Service) Redis() *redis.Client {
	return s.redisClient
}
