package main

import (
	"testing"

	"github.com/jo-hoe/perfumecatalog/internal/backend/blobstore"
	"github.com/jo-hoe/perfumecatalog/internal/core"
)

func TestExecute_FlushesLogger(t *testing.T) {
	tests := []struct {
		name     string
		config   *core.ServiceConfig
		expected int
	}{
		{
			name: "success",
			config: &core.ServiceConfig{
				Database:  core.Database{Type: "memory"},
				BlobStore: blobstore.Config{Type: "memory", PublicPrefix: "/storage"},
			},
			expected: 0,
		},
		{
			name: "failure",
			config: &core.ServiceConfig{
				Database:  core.Database{Type: "unknown"},
				BlobStore: blobstore.Config{Type: "memory"},
			},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synced := 0
			code := execute(tt.config, 3, func() error {
				synced++
				return nil
			})
			if code != tt.expected {
				t.Errorf("expected exit code %d, got %d", tt.expected, code)
			}
			if synced != 1 {
				t.Errorf("expected logger to be synced once, got %d", synced)
			}
		})
	}
}
