package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {}
func (l *recordingLogger) Info(format string, args ...interface{})    {}
func (l *recordingLogger) Error(format string, args ...interface{})   {}
func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

// stubLoader accepts one scheme and records calls.
type stubLoader struct {
	scheme  string
	content map[pgfleet.ContentURI]string
	listing []pgfleet.ContentURI
	err     error
	loads   int
	lists   int
}

func (s *stubLoader) Accepts(uri pgfleet.ContentURI) bool { return uri.Scheme() == s.scheme }

func (s *stubLoader) Load(ctx context.Context, uri pgfleet.ContentURI) (string, bool, error) {
	s.loads++
	if s.err != nil {
		return "", false, s.err
	}
	c, ok := s.content[uri]
	return c, ok, nil
}

func (s *stubLoader) ListFolder(ctx context.Context, folder pgfleet.ContentURI, pattern string) ([]pgfleet.ContentURI, error) {
	s.lists++
	return s.listing, s.err
}
