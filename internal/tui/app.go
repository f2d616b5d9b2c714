// Package tui is the interactive tracker list.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/grimoire/internal/clip"
	"github.com/idilsaglam/grimoire/internal/model"
	"github.com/idilsaglam/grimoire/internal/progress"
	"github.com/idilsaglam/grimoire/internal/ui"
	"github.com/idilsaglam/grimoire/internal/view"
)

// Options seed the initial filter.
type Options struct {
	Search   string
	Category model.Category
	UserID   string
	Logger   *zap.Logger
}

// filters is the tab cycle: "all" then each stage.
var filters = append([]model.Category{model.CategoryAll}, model.Categories...)

// syncedMsg reports a finished remote write for a toggle.
type syncedMsg struct {
	itemID string
	err    error
}

// resetMsg reports a finished bulk reset.
type resetMsg struct{ err error }

// Model is the bubbletea model for the tracker.
type Model struct {
	ctx    context.Context
	store  *progress.Store
	toasts *Toasts
	userID string
	logger *zap.Logger

	list      list.Model
	search    textinput.Model
	searching bool
	filter    int

	confirmReset bool
	inFlight     int
}

// New builds the model. toasts must be the notifier the store was built with
// so store notifications reach the status line.
func New(ctx context.Context, store *progress.Store, toasts *Toasts, opt Options) Model {
	l := list.New(nil, itemDelegate{}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("item", "items")

	// Extend help with tracker bindings
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "category")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy travel")),
		key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search name or boss..."
	ti.CharLimit = 80
	ti.SetValue(opt.Search)

	logger := opt.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := Model{
		ctx:    ctx,
		store:  store,
		toasts: toasts,
		userID: opt.UserID,
		logger: logger,
		list:   l,
		search: ti,
	}
	for i, f := range filters {
		if f == opt.Category {
			m.filter = i
		}
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen.
func Run(ctx context.Context, store *progress.Store, toasts *Toasts, opt Options) error {
	p := tea.NewProgram(New(ctx, store, toasts, opt), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) category() model.Category { return filters[m.filter] }

// refresh recomputes the projection and header from store state.
func (m *Model) refresh() {
	all := m.store.Items()
	projected := view.Project(all, m.search.Value(), m.category())
	li := make([]list.Item, 0, len(projected))
	for _, it := range projected {
		li = append(li, listItem{it})
	}
	idx := m.list.Index()
	m.list.SetItems(li)
	if idx >= len(li) {
		idx = len(li) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}

	t := view.Aggregate(all)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d  %s %sK  %s %d pts  %s",
		titleStyle.Render("Grimoire"),
		successStyle.Render("✔"), t.Completed,
		pendingStyle.Render("•"), t.Pending(),
		accentStyle.Render("Total"), t.Total,
		rewardStyle.Render("Kamas"), ui.Kamas(t.Reward),
		rewardStyle.Render("Points"), t.Points,
		mutedStyle.Render(m.category().Label()),
	)
}

func (m Model) selected() (model.Item, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return it.Item, true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 4
		if m.searching {
			h -= 2
		}
		m.list.SetSize(msg.Width-4, h)
		return m, nil

	case syncedMsg:
		m.inFlight--
		if msg.err != nil {
			m.logger.Debug("toggle rolled back in view", zap.String("item_id", msg.itemID))
		}
		m.refresh()
		return m, nil

	case resetMsg:
		m.inFlight--
		m.refresh()
		return m, nil
	}

	// search mode
	if m.searching {
		var cmd tea.Cmd
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				m.searching = false
				m.search.Blur()
				return m, nil
			case "esc":
				m.searching = false
				m.search.SetValue("")
				m.search.Blur()
				m.refresh()
				return m, nil
			}
		}
		m.search, cmd = m.search.Update(msg)
		m.refresh()
		return m, cmd
	}

	// reset confirmation
	if m.confirmReset {
		if k, ok := msg.(tea.KeyMsg); ok {
			m.confirmReset = false
			if k.String() == "y" || k.String() == "Y" {
				return m.startReset()
			}
			return m, nil
		}
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ", "x":
			return m.startToggle()
		case "s", "/":
			m.searching = true
			return m, m.search.Focus()
		case "tab":
			m.filter = (m.filter + 1) % len(filters)
			m.refresh()
			return m, nil
		case "shift+tab":
			m.filter = (m.filter + len(filters) - 1) % len(filters)
			m.refresh()
			return m, nil
		case "c":
			if it, ok := m.selected(); ok {
				if it.Travel == "" {
					m.toasts.Notify("Nothing to copy", it.Name+" has no travel command.", model.SeverityInfo)
				} else {
					_ = clip.Copy(it.Travel, m.toasts)
				}
			}
			return m, nil
		case "R":
			m.confirmReset = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// startToggle applies the toggle now and commits it in a command.
func (m Model) startToggle() (tea.Model, tea.Cmd) {
	it, ok := m.selected()
	if !ok {
		return m, nil
	}
	w, err := m.store.Begin(it.ID)
	if err != nil || w == nil {
		return m, nil
	}
	m.inFlight++
	m.refresh()
	ctx, store := m.ctx, m.store
	return m, func() tea.Msg {
		return syncedMsg{itemID: w.ItemID, err: store.Commit(ctx, w)}
	}
}

func (m Model) startReset() (tea.Model, tea.Cmd) {
	if m.userID == "" {
		m.toasts.Notify("Not signed in", "Sign in to reset your progress.", model.SeverityError)
		return m, nil
	}
	m.inFlight++
	ctx, store, user := m.ctx, m.store, m.userID
	return m, func() tea.Msg {
		return resetMsg{err: store.ResetAll(ctx, user)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	content := m.list.View()
	if m.searching || m.search.Value() != "" {
		content += "\n" + m.search.View()
	}
	content += "\n" + m.statusLine()
	return panelStyle.Render(content)
}

func (m Model) statusLine() string {
	if m.confirmReset {
		return errorStyle.Render("Reset all progress? y/N")
	}
	var parts []string
	if m.inFlight > 0 {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("syncing %d…", m.inFlight)))
	}
	if t := m.toasts.latest(); t.title != "" {
		text := t.title
		if t.description != "" {
			text += " — " + t.description
		}
		switch t.severity {
		case model.SeverityError:
			text = errorStyle.Render("✖ " + text)
		case model.SeveritySuccess:
			text = successStyle.Render("✔ " + text)
		default:
			text = accentStyle.Render("• " + text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "  ")
}
