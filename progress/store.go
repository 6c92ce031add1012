// Package progress persists the highest level a player has unlocked.
package progress

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store

// Store reads and advances the unlocked level marker.
type Store interface {
	// MaxLevelUnlocked returns the highest unlocked level, at least 1.
	MaxLevelUnlocked() (int, error)
	// AdvanceUnlockedLevel records level n as unlocked. Values at or
	// below the current marker are ignored.
	AdvanceUnlockedLevel(n int) error
}

// MemoryStore keeps the marker in memory.
type MemoryStore struct {
	max int
}

// NewMemoryStore creates a store with the given levels already unlocked.
func NewMemoryStore(unlocked int) *MemoryStore {
	if unlocked < 1 {
		unlocked = 1
	}
	return &MemoryStore{max: unlocked}
}

// MaxLevelUnlocked implements Store.
func (m *MemoryStore) MaxLevelUnlocked() (int, error) {
	return m.max, nil
}

// AdvanceUnlockedLevel implements Store.
func (m *MemoryStore) AdvanceUnlockedLevel(n int) error {
	if n > m.max {
		m.max = n
	}
	return nil
}
