package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/erp/stockdesk/internal/domain/bulk"
)

// MemoryExportStore keeps export files in process memory. Locations use the
// memory:// scheme and are only meaningful to Get.
type MemoryExportStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryExportStore creates an empty store
func NewMemoryExportStore() *MemoryExportStore {
	return &MemoryExportStore{files: make(map[string][]byte)}
}

// Store implements the export sink used by the bulk service
func (s *MemoryExportStore) Store(_ context.Context, file *bulk.ExportFile) (string, error) {
	if file == nil || file.FileName == "" {
		return "", errors.New("export file name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file.FileName] = append([]byte(nil), file.Content...)
	return "memory://" + file.FileName, nil
}

// Get returns a stored file's content
func (s *MemoryExportStore) Get(fileName string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[fileName]
	return content, ok
}
