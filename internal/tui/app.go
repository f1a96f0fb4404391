package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/encore/internal/api"
	"github.com/tessro/encore/internal/config"
	"github.com/tessro/encore/internal/core"
	apperrors "github.com/tessro/encore/internal/errors"
	"github.com/tessro/encore/internal/tail"
	"github.com/tessro/encore/internal/tui/components"
	"github.com/tessro/encore/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelHistory
	panelCount
)

// SearchType filters search results
type SearchType int

const (
	SearchAll SearchType = iota
	SearchTracks
	SearchUsers
	SearchPlaylists
	searchTypeCount
)

// searchResult represents a search result item
type searchResult struct {
	ID       string
	Title    string
	Subtitle string
	Type     SearchType
	Track    *core.Track // set for tracks
}

const (
	searchDebounce = 300 * time.Millisecond
	maxHistory     = 50
)

// Catalog is the part of the API the TUI browses.
type Catalog interface {
	api.TrackLookup
	Search(ctx context.Context, query string) (*api.SearchResults, error)
	TrackFromSearch(hit api.SearchTrack) *core.Track
}

// App holds the TUI's collaborators
type App struct {
	player      core.Player
	catalog     Catalog
	log         *slog.Logger
	refreshRate time.Duration

	// Latest state from the player. Holds at most one value; a newer state
	// replaces an unread one.
	updates chan core.PlaybackState
}

// NewApp creates a new TUI application. catalog may be nil when no API is
// configured.
func NewApp(player core.Player, catalog Catalog, refreshRate time.Duration, log *slog.Logger) *App {
	if refreshRate <= 0 {
		refreshRate = time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &App{
		player:      player,
		catalog:     catalog,
		log:         log,
		refreshRate: refreshRate,
		updates:     make(chan core.PlaybackState, 1),
	}
}

// publish hands s to the UI, replacing any state it has not read yet.
func (a *App) publish(s core.PlaybackState) {
	for {
		select {
		case a.updates <- s:
			return
		default:
		}
		select {
		case <-a.updates:
		default:
		}
	}
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel
	now          time.Time

	seekStep   float64
	volumeStep float64

	state   core.PlaybackState
	history []components.HistoryEntry

	nowPlaying  *components.NowPlaying
	historyView *components.History

	showHelp bool

	// Search state
	showSearch    bool
	searchInput   textinput.Model
	searchResults []searchResult
	searchCursor  int
	searchType    SearchType
	searching     bool
	lastQuery     string
	searchErr     error

	lastError   error
	errorExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App, player config.PlayerConfig) Model {
	ti := textinput.New()
	ti.Placeholder = "Search tracks, users, playlists..."
	ti.CharLimit = 100
	ti.Width = 50

	m := Model{
		app:          app,
		focusedPanel: PanelNowPlaying,
		now:          time.Now(),
		seekStep:     player.SeekStep,
		volumeStep:   player.VolumeStep,
		state:        app.player.State(),
		nowPlaying:   components.NewNowPlaying(),
		historyView:  components.NewHistory(),
		searchInput:  ti,
	}
	if m.state.HasTrack() {
		m.addToHistory(m.state.Track)
	}
	return m
}

// Messages
type tickMsg time.Time
type stateMsg core.PlaybackState
type errMsg error
type configMsg struct {
	seekStep   float64
	volumeStep float64
}

type searchDebounceMsg struct{ query string }
type searchResultsMsg struct {
	query   string
	results []searchResult
	err     error
}

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForState() tea.Cmd {
	updates := m.app.updates
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

// control runs a player operation off the update loop.
func (m Model) control(fn func(core.Player)) tea.Cmd {
	player := m.app.player
	return func() tea.Msg {
		fn(player)
		return nil
	}
}

func (m Model) doSearch(query string) tea.Cmd {
	catalog := m.app.catalog
	filter := m.searchType
	return func() tea.Msg {
		if catalog == nil {
			return searchResultsMsg{query: query, err: apperrors.ErrAPINotConfigured}
		}
		if query == "" {
			return searchResultsMsg{query: query}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		resp, err := catalog.Search(ctx, query)
		if err != nil {
			return searchResultsMsg{query: query, err: err}
		}
		return searchResultsMsg{query: query, results: buildResults(catalog, resp, filter)}
	}
}

func buildResults(catalog Catalog, resp *api.SearchResults, filter SearchType) []searchResult {
	var results []searchResult

	if filter == SearchAll || filter == SearchTracks {
		for _, t := range resp.Tracks {
			results = append(results, searchResult{
				ID:       t.ID,
				Title:    t.Title,
				Subtitle: t.Description,
				Type:     SearchTracks,
				Track:    catalog.TrackFromSearch(t),
			})
		}
	}
	if filter == SearchAll || filter == SearchUsers {
		for _, u := range resp.Users {
			results = append(results, searchResult{
				ID:       u.ID,
				Title:    u.UserName,
				Subtitle: "(User)",
				Type:     SearchUsers,
			})
		}
	}
	if filter == SearchAll || filter == SearchPlaylists {
		for _, p := range resp.Playlists {
			results = append(results, searchResult{
				ID:       p.ID,
				Title:    p.Name,
				Subtitle: "(Playlist)",
				Type:     SearchPlaylists,
			})
		}
	}
	return results
}

// playSearchResult looks up full metadata for a track hit and selects it.
// If the lookup fails the search hit itself is played when it has a file.
func (m Model) playSearchResult(result searchResult) tea.Cmd {
	catalog := m.app.catalog
	player := m.app.player
	log := m.app.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		track, err := catalog.LookupTrack(ctx, result.ID)
		if err != nil {
			if result.Track == nil || result.Track.MediaURL == "" {
				return errMsg(err)
			}
			log.Warn("track lookup failed, playing search hit", "track", result.ID, "error", err)
			track = result.Track
		}
		player.SelectTrack(track)
		return nil
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitForState())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		if m.now.After(m.errorExpiry) {
			m.lastError = nil
		}
		return m, m.tick()

	case stateMsg:
		m.applyState(core.PlaybackState(msg))
		return m, m.waitForState()

	case configMsg:
		m.seekStep = msg.seekStep
		m.volumeStep = msg.volumeStep
		return m, nil

	case errMsg:
		m.lastError = msg
		m.errorExpiry = time.Now().Add(5 * time.Second) // Show error for 5 seconds
		return m, nil

	case searchDebounceMsg:
		if msg.query == m.searchInput.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searching = true
			return m, m.doSearch(msg.query)
		}

	case searchResultsMsg:
		if msg.query != m.lastQuery {
			return m, nil
		}
		m.searching = false
		m.searchResults = msg.results
		m.searchErr = msg.err
		m.searchCursor = 0
		return m, nil
	}

	// Forward other messages to textinput when search is active
	if m.showSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

func (m *Model) applyState(next core.PlaybackState) {
	prev := m.state
	m.state = next

	if next.HasTrack() && !next.Track.Equal(prev.Track) {
		m.addToHistory(next.Track)
	}
	if len(m.history) > 0 && tail.Completed(&prev, &next) {
		m.history[0].Finished = true
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showSearch {
		return m.handleSearchKeyPress(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.searchResults = nil
		m.searchCursor = 0
		m.searchType = SearchAll
		m.lastQuery = ""
		m.searchErr = nil
		return m, textinput.Blink

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	}

	// Playback controls
	switch msg.String() {
	case " ":
		return m, m.control(func(p core.Player) { p.TogglePlay() })
	case "left", "h":
		target := m.state.Elapsed - m.seekStep
		return m, m.control(func(p core.Player) { p.Seek(target) })
	case "right", "l":
		target := m.state.Elapsed + m.seekStep
		return m, m.control(func(p core.Player) { p.Seek(target) })
	case "+", "=":
		volume := m.state.Volume + m.volumeStep
		return m, m.control(func(p core.Player) { p.SetVolume(volume) })
	case "-", "_":
		volume := m.state.Volume - m.volumeStep
		return m, m.control(func(p core.Player) { p.SetVolume(volume) })
	case "x":
		return m, m.control(func(p core.Player) { p.SelectTrack(nil) })
	}

	if m.focusedPanel == PanelHistory {
		switch msg.String() {
		case "j", "down":
			m.historyView.SelectNext(len(m.history))
		case "k", "up":
			m.historyView.SelectPrev()
		case "enter":
			if i := m.historyView.Selected(); i < len(m.history) {
				track := m.history[i].Track
				return m, m.control(func(p core.Player) { p.SelectTrack(track) })
			}
		}
	}

	return m, nil
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		if m.searchCursor < len(m.searchResults) {
			result := m.searchResults[m.searchCursor]
			if result.Type != SearchTracks {
				return m, nil
			}
			m.showSearch = false
			m.searchInput.Blur()
			return m, m.playSearchResult(result)
		}
		return m, nil

	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil

	case "ctrl+t":
		m.searchType = (m.searchType + 1) % searchTypeCount
		if m.searchInput.Value() != "" {
			m.searching = true
			m.lastQuery = m.searchInput.Value()
			return m, m.doSearch(m.lastQuery)
		}
		return m, nil
	}

	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	cmds = append(cmds, inputCmd)

	// Debounce search
	if query := m.searchInput.Value(); query != m.lastQuery {
		cmds = append(cmds, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{query: query}
		}))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) addToHistory(track *core.Track) {
	entry := components.HistoryEntry{
		Track:    track,
		PlayedAt: time.Now(),
	}

	// Add to front, keep max entries
	m.history = append([]components.HistoryEntry{entry}, m.history...)
	if len(m.history) > maxHistory {
		m.history = m.history[:maxHistory]
	}
	m.historyView.Reset()
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showSearch {
		return m.renderSearch()
	}

	// Two columns: Now Playing (left), History (right)
	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth
	panelHeight := max(m.height-3, 8)

	nowPlaying := m.nowPlaying.Render(m.state, leftWidth-2, panelHeight, m.focusedPanel == PanelNowPlaying)
	historyView := m.historyView.Render(m.history, rightWidth-2, panelHeight, m.focusedPanel == PanelHistory, m.now)

	main := lipgloss.JoinHorizontal(lipgloss.Top, nowPlaying, historyView)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  /:search  space:play/pause  ←/→:seek  +/-:volume  x:clear  tab:switch panel")

	if m.lastError != nil {
		status = styles.ErrorText.Render(apperrors.Format(m.lastError))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Encore - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  /            Search
  Tab          Next panel
  Shift+Tab    Previous panel

  Playback
  ────────
  Space        Play/Pause
  ←/h          Seek back ` + fmt.Sprintf("%gs", m.seekStep) + `
  →/l          Seek forward ` + fmt.Sprintf("%gs", m.seekStep) + `
  +/=          Volume up
  -            Volume down
  x            Clear track

  History Panel
  ─────────────
  j/↓          Select next
  k/↑          Select previous
  Enter        Play again

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderSearch() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("Search"))
	b.WriteString("\n\n")

	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	tabs := []string{"All", "Tracks", "Users", "Playlists"}
	activeTabStyle := styles.Highlight.Padding(0, 1).Underline(true)
	tabStyle := styles.Dim.Padding(0, 1)
	for i, tab := range tabs {
		if SearchType(i) == m.searchType {
			b.WriteString(activeTabStyle.Render(tab))
		} else {
			b.WriteString(tabStyle.Render(tab))
		}
	}
	b.WriteString("\n\n")

	switch {
	case m.searchErr != nil:
		b.WriteString(styles.ErrorText.Render("Error: " + m.searchErr.Error()))
	case m.searching:
		b.WriteString(styles.Subtitle.Render("Searching..."))
	case len(m.searchResults) == 0 && m.searchInput.Value() != "" && m.lastQuery != "":
		b.WriteString(styles.Subtitle.Render("No results found"))
	default:
		maxResults := 10
		for i, result := range m.searchResults {
			if i >= maxResults {
				b.WriteString(styles.Subtitle.Render("  ...and more"))
				break
			}

			line := result.Title
			if result.Subtitle != "" {
				line += " " + styles.Subtitle.Render(result.Subtitle)
			}

			if i == m.searchCursor {
				b.WriteString(styles.SelectedRow.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Ctrl+t:filter  ↑/↓:nav  Enter:play  Esc:close"))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Options configures Run.
type Options struct {
	Player  core.Player
	Catalog Catalog // nil when no API is configured
	Config  *config.Config
	// ConfigPath is watched for changes when set.
	ConfigPath string
	Logger     *slog.Logger
}

// Run starts the TUI application and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	styles.Use(styles.ForTheme(cfg.TUI.Theme))

	app := NewApp(opts.Player, opts.Catalog, time.Duration(cfg.TUI.RefreshInterval)*time.Millisecond, opts.Logger)
	cancelSub := opts.Player.Subscribe(app.publish)
	defer cancelSub()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(app, cfg.Player), tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.ConfigPath != "" {
		go func() {
			err := config.Watch(ctx, opts.ConfigPath, func(next *config.Config, err error) {
				if err != nil {
					p.Send(errMsg(fmt.Errorf("config reload: %w", err)))
					return
				}
				p.Send(configMsg{seekStep: next.Player.SeekStep, volumeStep: next.Player.VolumeStep})
			})
			if err != nil && ctx.Err() == nil {
				app.log.Warn("config watch stopped", "error", err)
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
