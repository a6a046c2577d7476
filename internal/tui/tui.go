// Package tui implements the zpeople list controller as a Bubble Tea model.
// It caches the people fetched from a store, renders one row per person and
// turns add, delete, filter and sort actions into store calls followed by a
// re-fetch.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstore"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zpeople/internal/store"
)

// accent is the zarlcorp palette color used for cursors and the header.
var accent = zstyle.ZburnAccent

type viewID int

const (
	viewPassword viewID = iota
	viewList
	viewPrompt
)

// Opener unlocks a store with a password. Used for the vault backend.
type Opener func(password []byte) (*store.Store, error)

// Options tune the initial list.
type Options struct {
	// Context bounds every store call. Nil means context.Background.
	Context context.Context
	Sort    store.Sort
}

// Model is the root TUI model.
type Model struct {
	ctx       context.Context
	version   string
	store     *store.Store
	open      Opener
	ownsStore bool

	sort   store.Sort
	filter string

	active viewID
	list   listModel
	prompt promptModel

	width int
}

// navigateMsg tells the root model to switch views.
type navigateMsg struct {
	view viewID
}

// reloadMsg asks the root to re-fetch the list.
type reloadMsg struct{}

// flashMsg clears the flash after a timeout.
type flashMsg struct{}

// New returns a model over an open store. The caller keeps ownership of s.
func New(version string, s *store.Store, opts Options) Model {
	m := Model{
		ctx:     runContext(opts),
		version: version,
		store:   s,
		sort:    opts.Sort,
		active:  viewList,
	}
	m.list = m.list.withPeople(nil)
	m.list.sort = m.sort
	return m
}

// NewLocked returns a model that asks for a password and unlocks the store
// with open. firstRun selects the create-and-confirm flow. The store opened
// this way is closed by Close.
func NewLocked(version string, open Opener, firstRun bool, opts Options) Model {
	purpose := promptUnlock
	if firstRun {
		purpose = promptCreate
	}
	return Model{
		ctx:     runContext(opts),
		version: version,
		open:    open,
		sort:    opts.Sort,
		active:  viewPassword,
		prompt:  newPromptModel(purpose, ""),
		list:    listModel{sort: opts.Sort},
	}
}

func runContext(opts Options) context.Context {
	if opts.Context == nil {
		return context.Background()
	}
	return opts.Context
}

func (m Model) Init() tea.Cmd {
	if m.active == viewPassword {
		return m.prompt.Init()
	}
	return func() tea.Msg { return reloadMsg{} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case passwordSubmitMsg:
		return m.unlock(msg.password)

	case reloadMsg:
		return m.reload()

	case navigateMsg:
		m.active = msg.view
		return m, tea.ClearScreen

	case openPromptMsg:
		initial := ""
		if msg.purpose == promptFilter {
			initial = m.filter
		}
		m.prompt = newPromptModel(msg.purpose, initial)
		m.active = viewPrompt
		return m, m.prompt.Init()

	case promptSubmitMsg:
		switch msg.purpose {
		case promptAdd:
			return m.handleAdd(msg.value)
		case promptFilter:
			m.filter = msg.value
			return m.reload()
		}
		return m, nil

	case deletePersonMsg:
		return m.handleDelete(msg.id)

	case selectPersonMsg:
		slog.Debug("row selected", "id", msg.person.ID, "name", msg.person.Name)
		return m, nil

	case cycleSortMsg:
		m.sort.Field = nextSortField(m.sort.Field)
		return m.reload()

	case reverseSortMsg:
		m.sort.Descending = !m.sort.Descending
		return m.reload()

	case clearFilterMsg:
		m.filter = ""
		return m.reload()
	}

	return m.updateActive(msg)
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case viewPassword, viewPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	case viewList:
		m.list, cmd = m.list.Update(msg)
	}

	return m, cmd
}

func (m Model) View() string {
	// the password view carries its own logo
	if m.active == viewPassword {
		return m.prompt.View()
	}

	var content string
	switch m.active {
	case viewList:
		content = m.list.View()
	case viewPrompt:
		content = m.prompt.View()
	}

	header := zstyle.RenderHeader("zpeople", m.viewTitle(), accent)
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(m.helpFor())

	return "\n" + header + "\n" + sep + "\n" + content + "\n" + footer + "\n"
}

func (m Model) viewTitle() string {
	switch m.active {
	case viewList:
		return "People"
	case viewPrompt:
		if m.prompt.purpose == promptFilter {
			return "Filter"
		}
		return "Add Person"
	}
	return ""
}

func (m Model) helpFor() []zstyle.HelpPair {
	switch m.active {
	case viewList:
		if m.list.confirm {
			return []zstyle.HelpPair{
				{Key: "y", Desc: "delete"},
				{Key: "n", Desc: "cancel"},
			}
		}
		help := []zstyle.HelpPair{
			{Key: "j/k", Desc: "navigate"},
			{Key: "a", Desc: "add"},
			{Key: "d", Desc: "delete"},
			{Key: "/", Desc: "filter"},
		}
		if m.filter != "" {
			help = append(help, zstyle.HelpPair{Key: "x", Desc: "clear filter"})
		}
		return append(help,
			zstyle.HelpPair{Key: "s", Desc: "sort"},
			zstyle.HelpPair{Key: "r", Desc: "reverse"},
			zstyle.HelpPair{Key: "q", Desc: "quit"},
		)
	case viewPrompt:
		return []zstyle.HelpPair{
			{Key: "enter", Desc: "ok"},
			{Key: "esc", Desc: "cancel"},
		}
	}
	return nil
}

func (m Model) unlock(password string) (tea.Model, tea.Cmd) {
	s, err := m.open([]byte(password))
	if err != nil {
		if errors.Is(err, zstore.ErrWrongPassword) {
			err = errors.New("wrong password")
		}
		slog.Warn("unlock vault", "err", err)
		m.prompt, _ = m.prompt.Update(passwordErrMsg{err: err})
		return m, nil
	}

	m.store = s
	m.ownsStore = true
	return m.reload()
}

func (m Model) query() store.Query {
	srt := m.sort
	q := store.Query{Sort: &srt}
	if m.filter != "" {
		pr := store.NameContains(m.filter)
		q.Filter = &pr
	}
	return q
}

// reload re-fetches the cached rows with the current query and shows the list.
// On failure the previous rows stay and the error is flashed.
func (m Model) reload() (Model, tea.Cmd) {
	m.active = viewList
	m.list.sort = m.sort
	m.list.filter = m.filter

	if m.store == nil {
		return m, nil
	}

	people, err := m.store.Fetch(m.ctx, m.query())
	if err != nil {
		slog.Error("load people", "err", err)
		m.list = m.list.setFlash("load: "+err.Error(), true)
		return m, clearFlashAfter()
	}

	m.list = m.list.withPeople(people)
	return m, nil
}

func (m Model) handleAdd(name string) (tea.Model, tea.Cmd) {
	p, err := m.store.Insert(m.ctx, name, 0, "")
	if err != nil {
		slog.Error("add person", "err", err)
		m.active = viewList
		m.list = m.list.setFlash("add: "+err.Error(), true)
		return m, clearFlashAfter()
	}
	slog.Info("person added", "id", p.ID)

	m, cmd := m.reload()
	if cmd != nil {
		return m, cmd
	}
	m.list = m.list.focus(p.ID).setFlash("added", false)
	return m, clearFlashAfter()
}

func (m Model) handleDelete(id string) (tea.Model, tea.Cmd) {
	if err := m.store.Delete(m.ctx, id); err != nil {
		slog.Error("delete person", "id", id, "err", err)
		m.list = m.list.setFlash("delete: "+err.Error(), true)
		return m, clearFlashAfter()
	}
	slog.Info("person deleted", "id", id)

	m, cmd := m.reload()
	if cmd != nil {
		return m, cmd
	}
	m.list = m.list.setFlash("deleted", false)
	return m, clearFlashAfter()
}

func nextSortField(f store.Field) store.Field {
	for i, sf := range store.SortFields {
		if sf == f {
			return store.SortFields[(i+1)%len(store.SortFields)]
		}
	}
	return store.FieldName
}

// flashTimeout is how long a flash line stays visible.
var flashTimeout = time.Second

func clearFlashAfter() tea.Cmd {
	return tea.Tick(flashTimeout, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}

// Close releases a store unlocked by the model. Call after the program exits.
func (m Model) Close() {
	if m.ownsStore && m.store != nil {
		m.store.Close()
	}
}
