package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/artefacto/internal/client/client"
	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/logging"
)

const maxScanSize = 10 << 20

var scanExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// ScanService identifies an artifact from a photo.
type ScanService interface {
	Scan(ctx context.Context, path string) (*models.Prediction, error)
}

type scanService struct {
	api    client.Predictor
	logger logging.Logger
}

func NewScanService(api client.Predictor, logger logging.Logger) ScanService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &scanService{api: api, logger: logger.With("component", "scan")}
}

func (s *scanService) Scan(ctx context.Context, path string) (*models.Prediction, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, invalid("file", "file is required")
	}
	if !scanExtensions[strings.ToLower(filepath.Ext(path))] {
		return nil, invalid("file", "file must be a JPEG, PNG or WebP image")
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, invalid("file", "cannot read "+path)
	}
	if info.Size() > maxScanSize {
		return nil, invalid("file", "image is larger than 10 MB")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, invalid("file", "cannot read "+path)
	}
	defer f.Close()

	p, err := s.api.Predict(ctx, filepath.Base(path), f)
	if err != nil {
		s.logger.Warn(ctx, "recognition failed", "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "artifact recognised", "name", p.Name, "confidence", p.Confidence)
	return p, nil
}
