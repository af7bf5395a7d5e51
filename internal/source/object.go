package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/storage"
	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

// ObjectSource reads the tables published to an S3-compatible bucket under
// a key prefix.
type ObjectSource struct {
	store  storage.ObjectStorage
	prefix string
	format string
}

func NewObjectSource(store storage.ObjectStorage, prefix, format string) *ObjectSource {
	return &ObjectSource{store: store, prefix: prefix, format: normalizeFormat(format)}
}

func (s *ObjectSource) LoadPromotions(ctx context.Context) ([]domain.Promotion, error) {
	data, err := s.store.GetObject(ctx, storage.Key(s.prefix, treated.PromotionsFileName))
	if err != nil {
		return nil, fmt.Errorf("get promotions table: %w", err)
	}
	return treated.ReadPromotionsCSV(bytesReader(data))
}

func (s *ObjectSource) LoadMonth(ctx context.Context, month string) ([]domain.TreatedSale, error) {
	key := storage.Key(s.prefix, treated.MonthFileName(month, s.format))
	data, err := s.store.GetObject(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, monthNotFound(month, key)
	}
	if err != nil {
		return nil, err
	}
	return decodeMonth(data, s.format, month)
}
