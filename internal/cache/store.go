// Package cache persists one fund's NAV series as a CSV data file plus a JSON
// metadata sidecar in a flat directory.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/fundnav/internal/apperrors"
	"github.com/ndewijer/fundnav/internal/model"
)

// Store reads and writes cached series. The orchestrator is its only writer.
type Store struct {
	dir string
	now func() time.Time
	log zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for freshness and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		dir: dir,
		now: time.Now,
		log: log.With().Str("component", "cache").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) dataPath(code string) string {
	return filepath.Join(s.dir, code+".csv")
}

func (s *Store) metaPath(code string) string {
	return filepath.Join(s.dir, code+"_meta.json")
}

// Read loads the cached series for code. ok is false on a miss; fresh is true
// when the metadata was written today. A cache that fails to decode is
// evicted and reported as a miss.
func (s *Store) Read(code string) (series model.NavSeries, fresh bool, ok bool) {
	series, err := s.load(code)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.EmptySeries(code), false, false
		}
		s.log.Warn().Err(err).Str("code", code).Msg("Evicting unreadable cache")
		if evictErr := s.Evict(code); evictErr != nil {
			s.log.Error().Err(evictErr).Str("code", code).Msg("Failed to evict cache")
		}
		return model.EmptySeries(code), false, false
	}

	now := s.now()
	last := series.Metadata.LastUpdate
	fresh = sameDay(last, now)
	return series, fresh, true
}

func (s *Store) load(code string) (model.NavSeries, error) {
	dataFile, dataErr := os.Open(s.dataPath(code))
	metaBytes, metaErr := os.ReadFile(s.metaPath(code))
	if dataErr == nil {
		defer dataFile.Close()
	}

	switch {
	case errors.Is(dataErr, os.ErrNotExist) && errors.Is(metaErr, os.ErrNotExist):
		return model.NavSeries{}, os.ErrNotExist
	case dataErr != nil:
		return model.NavSeries{}, fmt.Errorf("%w: data file: %v", apperrors.ErrCacheCorrupt, dataErr)
	case metaErr != nil:
		return model.NavSeries{}, fmt.Errorf("%w: metadata file: %v", apperrors.ErrCacheCorrupt, metaErr)
	}

	meta, err := decodeMetadata(metaBytes, s.now().Location())
	if err != nil {
		return model.NavSeries{}, err
	}
	if meta.FundCode != code {
		return model.NavSeries{}, fmt.Errorf("%w: metadata belongs to %q", apperrors.ErrCacheCorrupt, meta.FundCode)
	}

	records, err := decodeRecords(dataFile)
	if err != nil {
		return model.NavSeries{}, err
	}
	if len(records) != meta.DataCount {
		return model.NavSeries{}, fmt.Errorf("%w: metadata counts %d rows, data file has %d",
			apperrors.ErrCacheCorrupt, meta.DataCount, len(records))
	}

	return model.NavSeries{Code: code, Records: records, Metadata: meta}, nil
}

// Write persists the full series for code and returns it with recomputed
// metadata. The data file is replaced before the metadata file.
func (s *Store) Write(code string, series model.NavSeries) (model.NavSeries, error) {
	if series.Empty() {
		return series, fmt.Errorf("%w: refusing to cache an empty series for %s", apperrors.ErrNoData, code)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return series, fmt.Errorf("failed to create cache directory: %w", err)
	}

	series.Code = code
	series.Metadata = model.CacheMetadata{
		LastUpdate: s.now().Truncate(time.Second),
		FundCode:   code,
		DataCount:  series.Len(),
		DateRange:  model.DateRange{Start: series.MinDate(), End: series.MaxDate()},
	}

	data, err := encodeRecords(series.Records)
	if err != nil {
		return series, fmt.Errorf("failed to encode cache data: %w", err)
	}
	meta, err := encodeMetadata(series.Metadata)
	if err != nil {
		return series, fmt.Errorf("failed to encode cache metadata: %w", err)
	}

	if err := s.replace(s.dataPath(code), data); err != nil {
		return series, err
	}
	if err := s.replace(s.metaPath(code), meta); err != nil {
		return series, err
	}

	s.log.Debug().
		Str("code", code).
		Int("rows", series.Len()).
		Str("end", series.MaxDate().Format(model.DateLayout)).
		Msg("Cache written")

	return series, nil
}

// Evict removes both cache files for code. Missing files are not an error.
func (s *Store) Evict(code string) error {
	var errs []error
	for _, path := range []string{s.metaPath(code), s.dataPath(code)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to evict cache for %s: %w", code, errors.Join(errs...))
	}
	return nil
}

// CheckWritable verifies that the cache directory can be created and
// written to.
func (s *Store) CheckWritable() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(s.dir, ".probe-"+uuid.NewString())
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// replace writes data to a uniquely named temp file next to path and renames
// it into place.
func (s *Store) replace(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
