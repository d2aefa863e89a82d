// Package storage provides the blob stores for event banners and certificate
// documents.
package storage

import (
	"fmt"

	"github.com/sgea/academic-events/internal/core/ports"
	"github.com/sgea/academic-events/internal/infrastructure/config"
)

// New selects the blob store configured by cfg.Driver.
func New(cfg config.StorageConfig) (ports.BlobStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalDir)
	case "cloudinary":
		return NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
