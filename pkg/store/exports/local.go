package exports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type localSink struct {
	dir string
}

// NewLocalSink writes documents into dir, creating it when missing.
func NewLocalSink(dir string) (Sink, error) {
	if dir == "" {
		return nil, fmt.Errorf("export directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &localSink{dir: dir}, nil
}

func (s *localSink) Publish(ctx context.Context, name string, data []byte) (string, error) {
	base, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, base)
	tmp, err := os.CreateTemp(s.dir, base+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to move export into place: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", target).Int("bytes", len(data)).Msg("export written")
	return target, nil
}
