package exports

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Sink receives finished export documents.
type Sink interface {
	Publish(ctx context.Context, name string, data []byte) (string, error)
}

const (
	KindLocal = "local"
	KindS3    = "s3"
)

// cleanName keeps only the base name so a document can never escape its prefix.
func cleanName(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." || base == "" {
		return "", fmt.Errorf("invalid export name %q", name)
	}
	return base, nil
}
