package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

// HTTPOptions configures HTTPSource.
type HTTPOptions struct {
	BaseURL    string
	UserAgent  string
	Format     string
	Timeout    time.Duration
	MaxRetries int
	// Limiter bounds requests against the file host. Nil means 5 per second.
	Limiter *rate.Limiter
	// Backoff is the first retry delay; it doubles on each attempt.
	Backoff time.Duration
}

// HTTPSource fetches the treated tables from a web host laid out as
// <base>/relatorio_tratado.csv and <base>/tratado/<month>_tratado.<ext>.
type HTTPSource struct {
	client  *http.Client
	opts    HTTPOptions
	limiter *rate.Limiter
}

func NewHTTPSource(opts HTTPOptions) *HTTPSource {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.Backoff == 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	}
	opts.Format = normalizeFormat(opts.Format)
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(5, 5)
	}

	return &HTTPSource{
		client:  &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: limiter,
	}
}

func (s *HTTPSource) LoadPromotions(ctx context.Context) ([]domain.Promotion, error) {
	url := s.opts.BaseURL + "/" + treated.PromotionsFileName
	data, status, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("GET %s: http %d", url, status)
	}
	return treated.ReadPromotionsCSV(bytesReader(data))
}

func (s *HTTPSource) LoadMonth(ctx context.Context, month string) ([]domain.TreatedSale, error) {
	url := fmt.Sprintf("%s/%s/%s", s.opts.BaseURL, treated.SalesDir, treated.MonthFileName(month, s.opts.Format))
	data, status, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return decodeMonth(data, s.opts.Format, month)
	case http.StatusNotFound, http.StatusForbidden:
		return nil, monthNotFound(month, url)
	default:
		return nil, fmt.Errorf("GET %s: http %d", url, status)
	}
}

// get retries transport errors and 5xx responses with exponential backoff.
// Any other status is returned to the caller with the body.
func (s *HTTPSource) get(ctx context.Context, url string) ([]byte, int, error) {
	var lastErr error
	delay := s.opts.Backoff

	for attempt := range s.opts.MaxRetries {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("rate limiter wait: %w", err)
		}

		data, status, err := s.do(ctx, url)
		if err == nil && status < 500 {
			return data, status, nil
		}
		if err == nil {
			err = fmt.Errorf("http %d", status)
		}
		lastErr = err
		if attempt == s.opts.MaxRetries-1 {
			break
		}
		log.Warn().Err(err).Str("url", url).Int("attempt", attempt+1).Msg("treated table request failed, retrying")

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, 0, ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return nil, 0, fmt.Errorf("GET %s: all retries exhausted: %w", url, lastErr)
}

func (s *HTTPSource) do(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return data, resp.StatusCode, nil
}
