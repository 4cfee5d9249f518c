package model

// HealthStatus reports whether the service can serve requests.
type HealthStatus struct {
	Status   string `json:"status"`
	CacheDir string `json:"cacheDir"`
	Error    string `json:"error,omitempty"`
}
