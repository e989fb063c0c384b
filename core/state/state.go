// Package state provides the materialization state machine shared by datasets.
package state

import (
	"sync"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
)

// MaterializationState はデータセットのマテリアライズ状態を表す
type MaterializationState int

const (
	// Unmaterialized はテンソルがまだ構築されていない状態
	Unmaterialized MaterializationState = iota
	// Materialized はテンソルが構築済みで読み取り専用の状態
	Materialized
)

func (s MaterializationState) String() string {
	switch s {
	case Unmaterialized:
		return "unmaterialized"
	case Materialized:
		return "materialized"
	default:
		return "unknown"
	}
}

// Manager tracks the one-way Unmaterialized -> Materialized transition.
// Reads are safe from multiple goroutines; the transition itself is guarded,
// but callers must not run two materializations of the same dataset concurrently.
type Manager struct {
	mu    sync.RWMutex
	state MaterializationState
}

// NewManager creates a Manager in the Unmaterialized state.
func NewManager() *Manager {
	return &Manager{state: Unmaterialized}
}

// NewMaterializedManager creates a Manager that is already Materialized.
// Row selections use it for the datasets they derive.
func NewMaterializedManager() *Manager {
	return &Manager{state: Materialized}
}

// State returns the current state.
func (m *Manager) State() MaterializationState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsMaterialized reports whether the transition has happened.
func (m *Manager) IsMaterialized() bool {
	return m.State() == Materialized
}

// SetMaterialized performs the transition. It reports false if the manager
// was already Materialized.
func (m *Manager) SetMaterialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Materialized {
		return false
	}
	m.state = Materialized
	return true
}

// RequireMaterialized returns a NotMaterializedError naming op unless materialized.
func (m *Manager) RequireMaterialized(op string) error {
	if !m.IsMaterialized() {
		return errors.NewNotMaterializedError(op)
	}
	return nil
}

// RequireUnmaterialized returns an AlreadyMaterializedError naming op once materialized.
func (m *Manager) RequireUnmaterialized(op string) error {
	if m.IsMaterialized() {
		return errors.NewAlreadyMaterializedError(op)
	}
	return nil
}
