package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/blog-cache-api/internal/service"
)

// MockImageUploader is a mock implementation of ImageUploader
type MockImageUploader struct {
	UploadFunc func(ctx context.Context, filename, contentType string, r io.Reader) (string, error)

	mu       sync.Mutex
	Uploaded []string
}

// Verify interface compliance
var _ service.ImageUploader = (*MockImageUploader)(nil)

func NewMockImageUploader() *MockImageUploader {
	return &MockImageUploader{
		Uploaded: make([]string, 0),
	}
}

func (m *MockImageUploader) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, filename, contentType, r)
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploaded = append(m.Uploaded, filename)
	return fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/v1/%s", filename), nil
}
