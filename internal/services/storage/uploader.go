package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mkulima-ai/leafscan/pkg/utils"
)

// ArchiveImage uploads the original leaf image and returns its public URL.
// The URL is recorded on the persisted report so a case can be reviewed
// later with the photo that produced it.
func (s *Service) ArchiveImage(ctx context.Context, data []byte, filename string) (string, error) {
	key := utils.GenerateStorageKey(filename)

	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

// DeleteImage removes an archived image.
func (s *Service) DeleteImage(ctx context.Context, key string) error {
	_, err := s.sbClient.RemoveFile(s.bucket, []string{key})
	return err
}
