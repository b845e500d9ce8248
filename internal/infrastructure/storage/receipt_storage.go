// Package storage persists uploaded receipt files on the local
// filesystem and hands back opaque reference URLs for the expense lines.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"expense-report-service/internal/application/port"
)

// LocalReceiptStorage implements port.ReceiptStorage on a local
// directory. When no directory is configured, Store is a no-op that
// returns "", matching a deployment without receipt storage.
type LocalReceiptStorage struct {
	baseDir string
	baseURL string
	logger  *zap.Logger
}

// NewLocalReceiptStorage creates a new LocalReceiptStorage. baseURL
// prefixes the returned references (for example a static file mount).
func NewLocalReceiptStorage(baseDir, baseURL string, logger *zap.Logger) *LocalReceiptStorage {
	return &LocalReceiptStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Store writes the receipt under
// expense-receipts/{reportID}/{lineIndex}-{uuid}{ext} and returns its
// reference URL.
func (s *LocalReceiptStorage) Store(ctx context.Context, reportID int64, lineIndex int, filename string, content []byte) (string, error) {
	if s.baseDir == "" || filename == "" || len(content) == 0 {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	objectName := filepath.Join(
		"expense-receipts",
		fmt.Sprintf("%d", reportID),
		fmt.Sprintf("%d-%s%s", lineIndex, uuid.NewString(), ext),
	)
	fullPath := filepath.Join(s.baseDir, objectName)

	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create receipt directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write receipt",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}

	s.logger.Debug("Receipt stored",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))
	return s.baseURL + "/" + filepath.ToSlash(objectName), nil
}

// validatePath rejects paths escaping the storage root.
func (s *LocalReceiptStorage) validatePath(fullPath string) error {
	cleanBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("invalid storage base: %w", err)
	}
	cleanPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("invalid receipt path: %w", err)
	}
	if !strings.HasPrefix(cleanPath, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("receipt path escapes storage root")
	}
	return nil
}

// Verify interface compliance
var _ port.ReceiptStorage = (*LocalReceiptStorage)(nil)
