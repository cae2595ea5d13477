package client

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MockS3Client implements SnapshotUploader for testing without AWS credentials
type MockS3Client struct {
	Bucket string
	Region string
	Prefix string

	// Optional function override for custom test behavior
	UploadSnapshotFunc func(ctx context.Context, key string, body io.ReadSeeker) (string, error)

	mu      sync.Mutex
	uploads map[string][]byte
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket:  "test-bucket",
		Region:  "ap-northeast-2",
		Prefix:  "snapshots",
		uploads: make(map[string][]byte),
	}
}

func (m *MockS3Client) SnapshotKey(at time.Time) string {
	return snapshotKey(m.Prefix, at)
}

// UploadSnapshot keeps the uploaded bytes in memory
func (m *MockS3Client) UploadSnapshot(ctx context.Context, key string, body io.ReadSeeker) (string, error) {
	if m.UploadSnapshotFunc != nil {
		return m.UploadSnapshotFunc(ctx, key, body)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.uploads[key] = data
	m.mu.Unlock()
	return m.GetFileURL(key), nil
}

func (m *MockS3Client) GetFileURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// Uploaded returns the bytes stored under key
func (m *MockS3Client) Uploaded(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.uploads[key]
	return data, ok
}

// Keys lists every uploaded key
func (m *MockS3Client) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.uploads))
	for k := range m.uploads {
		keys = append(keys, k)
	}
	return keys
}

var _ SnapshotUploader = (*MockS3Client)(nil)
