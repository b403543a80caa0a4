// Package registry keeps the set of playable runner modes. Each mode
// registers a factory from its package init(), so the CLI and the terminal
// front end can list and build modes by ID without importing them directly.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tile-runner/internal/core"
)

// Game is the contract between a runner mode and the platform.
// Implementations hold simulation state only; the platform owns key
// mapping, tick timing and terminal output.
type Game interface {
	// ID is the stable mode identifier used by the CLI and the score store.
	ID() string

	// Title is the display name shown in lists and the HUD.
	Title() string

	// Reset builds a fresh session for the given screen and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick with the actions collected since the last one.
	Step(in core.InputFrame) core.StepResult

	// Render draws the latest frame into dst.
	Render(dst *core.Screen)

	// State reports score, attempts and lifecycle flags.
	State() core.GameState
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory builds a new mode instance.
type Factory func() Game

// ErrUnknownGame is returned by Create for unregistered IDs.
var ErrUnknownGame = errors.New("registry: unknown game")

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a factory under id. Registering the same id twice panics.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered modes sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, 0, len(factories))
	for id := range factories {
		out = append(out, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create builds the mode registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
