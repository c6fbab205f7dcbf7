package signer

import (
	"fmt"
	"io"
	"sync"
)

// SessionCache holds process-wide custody sessions keyed by the
// configuration that opened them, so each distinct device or service
// connection is initialized once. Lifecycle is explicit: Open dials on
// first use, Close and CloseAll tear down.
type SessionCache struct {
	mu       sync.Mutex
	sessions map[string]io.Closer
}

// NewSessionCache creates an empty session cache
func NewSessionCache() *SessionCache {
	return &SessionCache{sessions: make(map[string]io.Closer)}
}

// DefaultSessions is the process-wide cache used by the signer factory.
// Callers owning their own lifecycle should create their own cache.
var DefaultSessions = NewSessionCache()

// Open returns the session for key, dialing it on first use. The dial
// runs under the cache lock, so concurrent opens of the same key dial once.
func (c *SessionCache) Open(key string, dial func() (io.Closer, error)) (io.Closer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.sessions[key]; ok {
		return s, nil
	}

	s, err := dial()
	if err != nil {
		return nil, fmt.Errorf("failed to open session %q: %w", key, err)
	}
	c.sessions[key] = s
	return s, nil
}

// Close tears down and forgets the session for key, if any
func (c *SessionCache) Close(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[key]
	if !ok {
		return nil
	}
	delete(c.sessions, key)
	return s.Close()
}

// CloseAll tears down every session, keeping the first error
func (c *SessionCache) CloseAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for key, s := range c.sessions {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.sessions, key)
	}
	return firstErr
}
