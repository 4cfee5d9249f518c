package service

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	Dir() string
	CheckWritable() error
}

// SystemService handles system-related operations
type SystemService struct {
	cache HealthChecker
}

// NewSystemService creates a new SystemService
func NewSystemService(cache HealthChecker) *SystemService {
	return &SystemService{
		cache: cache,
	}
}

// CheckHealth checks that the cache directory is writable.
func (s *SystemService) CheckHealth() error {
	return s.cache.CheckWritable()
}

// CacheDir returns the directory holding the cached series.
func (s *SystemService) CacheDir() string {
	return s.cache.Dir()
}
