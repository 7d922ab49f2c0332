// Package bundle loads the compiled widget script, stamps request
// specific runtime configuration into it, and memoizes the stamped
// output per identity so the hot path skips the string work.
package bundle

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Source reads the static artifact once per process and keeps it in
// memory. A non-zero Reload interval re-reads the file when the cached
// copy is older than the interval; useful in development, left at zero in
// production where the artifact only changes on deploy.
type Source struct {
	Path   string
	Reload time.Duration

	mu       sync.Mutex
	data     []byte
	loadedAt time.Time
}

func NewSource(path string, reload time.Duration) *Source {
	return &Source{Path: path, Reload: reload}
}

func (s *Source) Artifact() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil && (s.Reload <= 0 || time.Since(s.loadedAt) < s.Reload) {
		return s.data, nil
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if s.data != nil {
			// Keep serving the last good copy if a dev reload fails.
			return s.data, nil
		}
		return nil, fmt.Errorf("read bundle artifact %s: %w", s.Path, err)
	}
	s.data = raw
	s.loadedAt = time.Now()
	return s.data, nil
}
