package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

// MonthLister is implemented by sources that can enumerate the months they
// hold.
type MonthLister interface {
	Months(ctx context.Context) ([]string, error)
}

// Months lists the prepared months of src, oldest first. Sources that cannot
// enumerate their content return errors.ErrUnsupported.
func Months(ctx context.Context, src Source) ([]string, error) {
	lister, ok := src.(MonthLister)
	if !ok {
		return nil, fmt.Errorf("month listing: %w", errors.ErrUnsupported)
	}
	return lister.Months(ctx)
}

func (s *DirSource) Months(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return monthsOf(names, s.format), nil
}

func (s *ObjectSource) Months(ctx context.Context) ([]string, error) {
	objects, err := s.store.ListObjects(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	names := make([]string, 0, len(objects))
	for _, o := range objects {
		names = append(names, path.Base(o.Key))
	}
	return monthsOf(names, s.format), nil
}

// monthsOf keeps the months whose sales file exists in format.
func monthsOf(names []string, format string) []string {
	months := []string{}
	for _, name := range names {
		month, ext, ok := treated.MonthFromFileName(name)
		if ok && ext == format {
			months = append(months, month)
		}
	}
	sort.Strings(months)
	return months
}
