// Package testutils provides deterministic generators, fixtures and helpers
// for typedshell tests.
package testutils

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// Thread-safe counter for deterministic ID generation
	idCounter uint64
	idMutex   sync.Mutex
)

// NewSessionID returns a random UUID, or a deterministic one in test mode:
// 00000001-0000-4000-8000-000000000001, 00000002-0000-4000-8000-000000000002, ...
func NewSessionID(testMode bool) uuid.UUID {
	if !testMode {
		return uuid.New()
	}
	idMutex.Lock()
	defer idMutex.Unlock()

	idCounter++
	return uuid.MustParse(fmt.Sprintf("%08x-0000-4000-8000-%012x", idCounter, idCounter))
}

// ResetTestCounters resets the deterministic counters.
func ResetTestCounters() {
	idMutex.Lock()
	defer idMutex.Unlock()
	idCounter = 0
}
