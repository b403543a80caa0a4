package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tile-runner/internal/core"
	"github.com/vovakirdan/tile-runner/internal/registry"
	"github.com/vovakirdan/tile-runner/internal/storage"
)

// Model is the Bubble Tea model for a running game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	logger     *log.Logger

	quitting       bool
	goingBack      bool
	runSaved       bool // Current game over already persisted
	continuesSaved int  // Continues already added to the store
}

// NewModel creates a new Bubble Tea model for the given game. store and
// logger may be nil.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keys:       NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		logger:     logger,
	}
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	if rr, ok := m.game.(runReporter); ok && m.store != nil {
		rr.SetBest(loadBest(m.store, m.game.ID()))
	}
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey collects actions for the next tick. Global keys act at once.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.finish()
		m.quitting = true
		return m, tea.Quit
	}
	if m.inputFrame.Has(core.ActionBack) {
		m.finish()
		m.goingBack = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize resizes the screen. An unstarted game is rebuilt for the
// new size; a running one keeps its surface and is scaled when drawn.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if !m.gameState.Started {
		m.game.Reset(m.config)
		if rr, ok := m.game.(runReporter); ok && m.store != nil {
			rr.SetBest(loadBest(m.store, m.game.ID()))
		}
	}
	return m, nil
}

// handleTick runs one simulation tick and persists finished runs.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	prev := m.gameState
	m.gameState = result.State
	m.inputFrame.Clear()

	if prev.GameOver && !m.gameState.GameOver {
		m.runSaved = false
	}
	if m.gameState.GameOver && !m.runSaved {
		m.saveRun(true)
		m.runSaved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// saveRun persists the current run if the game reports runs.
func (m *Model) saveRun(gameOver bool) {
	rr, ok := m.game.(runReporter)
	if !ok || m.store == nil {
		return
	}
	rep := rr.Report()
	if err := persistRun(m.store, m.game.ID(), rep, gameOver); err != nil {
		m.logger.Warn("could not save run", "game", m.game.ID(), "err", err)
	}
	m.saveContinues(rep.Metrics.Continues)
	m.logger.Info("run saved", "game", m.game.ID(), "score", rep.Score, "rating", rep.Rating, "game_over", gameOver)
}

func (m *Model) saveContinues(total int) {
	if delta := total - m.continuesSaved; delta > 0 {
		if _, err := m.store.Add(m.game.ID(), storage.CounterContinues, delta); err != nil {
			m.logger.Warn("could not save continues", "err", err)
			return
		}
		m.continuesSaved = total
	}
}

// finish closes the session when the player leaves the game.
func (m *Model) finish() {
	rr, ok := m.game.(runReporter)
	if !ok || m.store == nil || !m.gameState.Started {
		return
	}
	rep := rr.Finish()
	if !m.runSaved {
		m.saveRun(false)
		return
	}
	if err := m.store.Set(m.game.ID(), storage.CounterRating, rep.Rating); err != nil {
		m.logger.Warn("could not save rating", "err", err)
	}
	m.saveContinues(rep.Metrics.Continues)
}

// saveScreenshot saves the current screen as plain text.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".tilerunner", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot dir", "err", err)
		return
	}
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.goingBack {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// GoingBack reports whether the player left for the menu.
func (m Model) GoingBack() bool {
	return m.goingBack
}

// Run starts the Bubble Tea program for game. It returns true when the
// player pressed back rather than quit.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (goBack bool, err error) {
	p := tea.NewProgram(NewModel(game, store, cfg, logger), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return m.GoingBack(), nil
}
