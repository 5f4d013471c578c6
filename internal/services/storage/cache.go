package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mkulima-ai/leafscan/internal/models"
)

const diagnosisKeyPrefix = "diagnosis:"

// GetDiagnosis returns a cached diagnosis for an image hash, or nil on a
// cache miss. The pipeline is deterministic, so byte-identical uploads can
// safely reuse an earlier result.
func (s *Service) GetDiagnosis(ctx context.Context, imageHash string) (*models.DiagnosisResult, error) {
	data, err := s.redisClient.Get(ctx, diagnosisKeyPrefix+imageHash).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var result models.DiagnosisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return &result, nil
}

// SetDiagnosis caches a finished diagnosis under its image hash.
func (s *Service) SetDiagnosis(ctx context.Context, imageHash string, result *models.DiagnosisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	return s.redisClient.Set(ctx, diagnosisKeyPrefix+imageHash, data, s.cacheDuration).Err()
}
