package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreWritesUnderReportDirectory(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalReceiptStorage(dir, "local://receipts", zap.NewNop())

	url, err := s.Store(context.Background(), 42, 1, "receipt.PNG", []byte("image-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "local://receipts/expense-receipts/42/1-"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	matches, err := filepath.Glob(filepath.Join(dir, "expense-receipts", "42", "1-*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), content)
}

func TestStoreUnconfiguredReturnsEmpty(t *testing.T) {
	s := NewLocalReceiptStorage("", "", zap.NewNop())

	url, err := s.Store(context.Background(), 1, 0, "receipt.png", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestStoreSkipsEmptyUploads(t *testing.T) {
	s := NewLocalReceiptStorage(t.TempDir(), "local://receipts", zap.NewNop())

	url, err := s.Store(context.Background(), 1, 0, "", nil)
	require.NoError(t, err)
	assert.Empty(t, url)
}
