// Package dialui provides the Bubble Tea prime dial interface.
package dialui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/primedial/internal/dial"
	"github.com/verte-zerg/primedial/internal/log"
	"github.com/verte-zerg/primedial/internal/model"
	"github.com/verte-zerg/primedial/internal/primecache"
	"github.com/verte-zerg/primedial/internal/selector"
)

const (
	tabDial = iota
	tabSeries
	tabHistory
)

const (
	historyLimit = 200
	coarseStep   = 10
)

// Engine is the part of engine.Engine the UI drives.
type Engine interface {
	BuildSeries(ctx context.Context, min, max, limit int) (dial.Series, error)
	Draw(ctx context.Context, series dial.Series, min, max int) (int, dial.Series, error)
	CacheStats() primecache.Stats
	ResetCache()
}

// History records and lists draws. A nil History disables the History tab.
type History interface {
	InsertDraw(ctx context.Context, draw model.Draw) (int64, error)
	ListDraws(ctx context.Context, filter model.HistoryFilter) ([]model.Draw, error)
}

type recomputeMsg struct {
	seq int
}

type seriesMsg struct {
	seq    int
	rng    model.Range
	series dial.Series
	err    error
}

type drawMsg struct {
	rng       model.Range
	value     int
	series    dial.Series
	err       error
	recordErr error
}

// Model implements the Bubble Tea dial UI.
type Model struct {
	engine  Engine
	history History
	logger  *log.Logger
	cfg     model.Config
	now     func() time.Time

	min int
	max int

	series      dial.Series
	seriesRange model.Range
	hasSeries   bool
	seriesErr   string
	pendingSeq  int

	lastDraw int
	hasDraw  bool
	drawNote string

	draws  []model.Draw
	errMsg string

	tabs         []string
	activeTab    int
	dialView     viewport.Model
	seriesTable  table.Model
	historyTable table.Model

	width  int
	height int

	formMode   bool
	formInputs []textinput.Model
	formIndex  int
	formError  string
}

// NewModel constructs a dial UI model. history may be nil.
func NewModel(eng Engine, history History, cfg model.Config, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Discard()
	}
	if cfg.Cap <= 0 {
		cfg.Cap = dial.DefaultCap
	}
	m := &Model{
		engine:  eng,
		history: history,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
		min:     cfg.Min,
		max:     cfg.Max,
		tabs:    []string{"Dial", "Series", "History"},
	}
	m.dialView = viewport.New(0, 0)
	m.seriesTable = newTable(seriesColumns(), nil, 1)
	m.historyTable = newTable(historyColumns(), nil, 1)
	m.initInputs()
	m.refreshHistory()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.pendingSeq++
	return m.buildCmd(m.pendingSeq, m.currentRange())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderContents()
		return m, nil
	case recomputeMsg:
		if msg.seq != m.pendingSeq {
			return m, nil
		}
		return m, m.buildCmd(msg.seq, m.currentRange())
	case seriesMsg:
		m.applySeries(msg)
		return m, nil
	case drawMsg:
		m.applyDraw(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.formMode {
			return m.updateForm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.moveTab(1)
		return m, nil
	case "shift+tab":
		m.moveTab(-1)
		return m, nil
	case "1", "2", "3":
		m.setTab(int(msg.String()[0] - '1'))
		return m, nil
	case "r", " ":
		m.drawNote = "Drawing..."
		return m, m.drawCmd(m.currentRange())
	case "/":
		return m.startForm()
	case "c":
		m.engine.ResetCache()
		m.logger.Info("range cache purged")
		m.renderContents()
		return m, nil
	}
	if m.activeTab == tabDial {
		if cmd, ok := m.updateSliders(msg.String()); ok {
			return m, cmd
		}
		var cmd tea.Cmd
		m.dialView, cmd = m.dialView.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	switch m.activeTab {
	case tabSeries:
		m.seriesTable, cmd = m.seriesTable.Update(msg)
	case tabHistory:
		m.historyTable, cmd = m.historyTable.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateSliders(key string) (tea.Cmd, bool) {
	switch key {
	case "left":
		m.setMin(m.min - 1)
	case "right":
		m.setMin(m.min + 1)
	case "shift+left":
		m.setMin(m.min - coarseStep)
	case "shift+right":
		m.setMin(m.min + coarseStep)
	case "down":
		m.setMax(m.max - 1)
	case "up":
		m.setMax(m.max + 1)
	case "shift+down":
		m.setMax(m.max - coarseStep)
	case "shift+up":
		m.setMax(m.max + coarseStep)
	default:
		return nil, false
	}
	return m.scheduleRecompute(), true
}

// setMin moves the lower bound, pushing the upper bound to min+1 when they meet.
func (m *Model) setMin(v int) {
	m.min = v
	if m.min >= m.max {
		m.max = m.min + 1
	}
}

// setMax moves the upper bound, pulling the lower bound to max-1 when they meet.
func (m *Model) setMax(v int) {
	m.max = v
	if m.max <= m.min {
		m.min = m.max - 1
	}
}

func (m *Model) scheduleRecompute() tea.Cmd {
	m.pendingSeq++
	seq := m.pendingSeq
	if m.cfg.DebounceMs <= 0 {
		return func() tea.Msg {
			return recomputeMsg{seq: seq}
		}
	}
	delay := time.Duration(m.cfg.DebounceMs) * time.Millisecond
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return recomputeMsg{seq: seq}
	})
}

func (m *Model) currentRange() model.Range {
	return model.Range{Min: m.min, Max: m.max}
}

func (m *Model) buildCmd(seq int, rng model.Range) tea.Cmd {
	eng, limit := m.engine, m.cfg.Cap
	return func() tea.Msg {
		series, err := eng.BuildSeries(context.Background(), rng.Min, rng.Max, limit)
		return seriesMsg{seq: seq, rng: rng, series: series, err: err}
	}
}

func (m *Model) drawCmd(rng model.Range) tea.Cmd {
	eng, hist, limit, now := m.engine, m.history, m.cfg.Cap, m.now
	return func() tea.Msg {
		ctx := context.Background()
		series, err := eng.BuildSeries(ctx, rng.Min, rng.Max, limit)
		if err != nil {
			return drawMsg{rng: rng, err: err}
		}
		value, highlighted, err := eng.Draw(ctx, series, rng.Min, rng.Max)
		if err != nil {
			return drawMsg{rng: rng, err: err}
		}
		msg := drawMsg{rng: rng, value: value, series: highlighted}
		if hist != nil {
			_, msg.recordErr = hist.InsertDraw(ctx, model.Draw{
				Min:     rng.Min,
				Max:     rng.Max,
				Value:   value,
				DrawnAt: now(),
			})
		}
		return msg
	}
}

func (m *Model) applySeries(msg seriesMsg) {
	if msg.seq != m.pendingSeq {
		return
	}
	if msg.err != nil {
		m.hasSeries = false
		m.seriesErr = describeError(msg.err)
		m.logger.Warn("failed to build series", "range", msg.rng.String(), "error", msg.err)
	} else {
		m.series = msg.series
		m.seriesRange = msg.rng
		m.hasSeries = true
		m.seriesErr = ""
	}
	m.renderContents()
}

func (m *Model) applyDraw(msg drawMsg) {
	if msg.err != nil {
		m.hasDraw = false
		m.drawNote = describeError(msg.err)
		m.renderContents()
		return
	}
	m.lastDraw = msg.value
	m.hasDraw = true
	m.drawNote = ""
	m.logger.Info("drew prime", "range", msg.rng.String(), "value", msg.value)
	if msg.rng == m.currentRange() {
		// a draw supersedes any recompute still waiting on the debounce
		m.pendingSeq++
		m.series = msg.series
		m.seriesRange = msg.rng
		m.hasSeries = true
		m.seriesErr = ""
	}
	if msg.recordErr != nil {
		m.errMsg = fmt.Sprintf("failed to record draw: %v", msg.recordErr)
		m.logger.Warn("failed to record draw", "error", msg.recordErr)
	}
	m.refreshHistory()
	m.renderContents()
}

func (m *Model) refreshHistory() {
	if m.history == nil {
		m.draws = nil
		return
	}
	draws, err := m.history.ListDraws(context.Background(), model.HistoryFilter{Last: historyLimit})
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		m.logger.Warn("failed to load history", "error", err)
		return
	}
	m.draws = draws
	m.historyTable.SetRows(historyRows(draws))
	m.historyTable.GotoBottom()
}

func describeError(err error) string {
	switch {
	case errors.Is(err, selector.ErrEmptyRange):
		return "No primes in range"
	case errors.Is(err, dial.ErrDegenerateSeries):
		return "Nothing to display"
	default:
		return err.Error()
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.setTab(next)
}

func (m *Model) setTab(idx int) {
	if idx < 0 || idx >= len(m.tabs) {
		return
	}
	m.activeTab = idx
	m.seriesTable.Blur()
	m.historyTable.Blur()
	switch m.activeTab {
	case tabSeries:
		m.seriesTable.Focus()
	case tabHistory:
		m.historyTable.Focus()
	}
}

func (m *Model) initInputs() {
	m.formInputs = []textinput.Model{
		newFormInput("Min: "),
		newFormInput("Max: "),
		newFormInput("Cap: "),
	}
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 20
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) startForm() (tea.Model, tea.Cmd) {
	m.formMode = true
	m.formError = ""
	m.formInputs[0].SetValue(strconv.Itoa(m.min))
	m.formInputs[1].SetValue(strconv.Itoa(m.max))
	m.formInputs[2].SetValue(strconv.Itoa(m.cfg.Cap))
	return m, m.setFormIndex(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.formMode = false
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyForm(); err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.formMode = false
		m.formError = ""
		m.pendingSeq++
		return m, m.buildCmd(m.pendingSeq, m.currentRange())
	case tea.KeyTab:
		return m, m.setFormIndex(m.formIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFormIndex(m.formIndex - 1)
	}
	var cmd tea.Cmd
	m.formInputs[m.formIndex], cmd = m.formInputs[m.formIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFormIndex(idx int) tea.Cmd {
	count := len(m.formInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.formIndex = idx
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.formIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyForm() error {
	minVal, err := strconv.Atoi(strings.TrimSpace(m.formInputs[0].Value()))
	if err != nil {
		return fmt.Errorf("invalid min (use integer)")
	}
	maxVal, err := strconv.Atoi(strings.TrimSpace(m.formInputs[1].Value()))
	if err != nil {
		return fmt.Errorf("invalid max (use integer)")
	}
	if minVal > maxVal {
		return fmt.Errorf("min must be <= max")
	}
	capInput := strings.TrimSpace(m.formInputs[2].Value())
	limit := m.cfg.Cap
	if capInput != "" {
		parsed, err := strconv.Atoi(capInput)
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid cap (use integer >= 1)")
		}
		limit = parsed
	}
	m.min = minVal
	m.max = maxVal
	m.cfg.Cap = limit
	return nil
}
