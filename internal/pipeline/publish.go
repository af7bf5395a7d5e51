package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/tabloide-insight/internal/storage"
	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

// Publish uploads the treated tables found in dir to object storage under
// prefix, using the same flat names the object source reads. Other files in
// dir are left alone. It returns the uploaded keys.
func Publish(ctx context.Context, dir string, store storage.ObjectStorage, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output dir %s: %w", dir, err)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() || !isTreatedFile(e.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return keys, err
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return keys, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}

		key := storage.Key(prefix, e.Name())
		if err := store.PutObject(ctx, key, data); err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", key, err)
		}
		log.Info().Str("key", key).Int("bytes", len(data)).Msg("published")
		keys = append(keys, key)
	}
	return keys, nil
}

func isTreatedFile(name string) bool {
	if name == treated.PromotionsFileName {
		return true
	}
	_, _, ok := treated.MonthFromFileName(name)
	return ok
}
