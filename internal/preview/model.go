package preview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/goliatone/go-blog/internal/content"
	"github.com/goliatone/go-blog/internal/counter"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Config wires the preview program to the blog services.
type Config struct {
	SiteTitle     string
	Content       content.Service
	IncludeDrafts bool
	CounterLabel  string
	CounterStart  int
	Logger        interfaces.Logger
}

type focusArea int

const (
	focusPosts focusArea = iota
	focusCounter
)

type postsLoadedMsg struct {
	posts []*content.Post
	err   error
}

// Model is the root Bubble Tea model: a post list pane, a detail pane for the
// selected post, and a live counter pane bound to a counter cell. Counter keys
// invoke the cell's operations and the cell's synchronous change notification
// feeds the value the next render shows.
type Model struct {
	cfg    Config
	logger interfaces.Logger

	list     list.Model
	posts    []*content.Post
	selected *content.Post

	cell         *counter.Cell
	counterValue int

	focus   focusArea
	width   int
	height  int
	loadErr error
}

// New constructs the preview model. The counter pane observes its cell, so
// every increment or decrement re-renders with the fresh value.
func New(cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	m := &Model{
		cfg:    cfg,
		logger: logger,
		list:   l,
	}

	m.cell = counter.New(
		counter.WithStart(cfg.CounterStart),
		counter.WithLogger(logger),
		counter.WithObserver(func(value int) {
			m.counterValue = value
		}),
	)
	m.counterValue = m.cell.Value()

	return m
}

// Run launches the Bubble Tea program in the alternate screen.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadPosts()
}

func (m *Model) loadPosts() tea.Cmd {
	svc := m.cfg.Content
	drafts := m.cfg.IncludeDrafts
	return func() tea.Msg {
		if svc == nil {
			return postsLoadedMsg{}
		}
		posts, err := svc.List(context.Background(), content.ListPostsRequest{IncludeDrafts: drafts})
		return postsLoadedMsg{posts: posts, err: err}
	}
}

// Update routes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.list.SetSize(m.listWidth(), m.contentHeight())
	case postsLoadedMsg:
		m.loadErr = v.err
		m.posts = v.posts
		m.list.SetItems(itemsFromPosts(v.posts))
		m.syncSelection()
	case tea.KeyPressMsg:
		if handled, cmd := m.handleKey(v); handled {
			return m, cmd
		}
		if m.focus == focusPosts {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			m.syncSelection()
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return true, tea.Quit
	case "tab":
		if m.focus == focusPosts {
			m.focus = focusCounter
		} else {
			m.focus = focusPosts
		}
		return true, nil
	case "+", "=":
		m.cell.Increment()
		return true, nil
	case "-", "_":
		m.cell.Decrement()
		return true, nil
	case "r":
		return true, m.loadPosts()
	}
	return false, nil
}

func (m *Model) syncSelection() {
	item, ok := m.list.SelectedItem().(postItem)
	if !ok {
		m.selected = nil
		return
	}
	m.selected = item.post
}

// CounterValue reports the value the counter pane renders.
func (m *Model) CounterValue() int {
	return m.counterValue
}

// Selected reports the post the detail pane renders.
func (m *Model) Selected() *content.Post {
	return m.selected
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedPane  = paneStyle.Foreground(lipgloss.Color("212"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	counterStyle = lipgloss.NewStyle().Bold(true)
)

// View renders the composed panes.
func (m *Model) View() (string, *tea.Cursor) {
	header := titleStyle.Render(m.headerTitle())

	listPane := paneStyle
	counterPane := paneStyle
	if m.focus == focusPosts {
		listPane = focusedPane
	} else {
		counterPane = focusedPane
	}

	listView := listPane.Width(m.listWidth()).Render(m.list.View())
	detailView := paneStyle.Width(m.detailWidth()).Render(m.detailBody())
	body := lipgloss.JoinHorizontal(lipgloss.Top, listView, detailView)

	counterView := counterPane.Render(m.counterBody())
	help := subtleStyle.Render("tab focus · +/- counter · r reload · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, counterView, help), nil
}

func (m *Model) headerTitle() string {
	title := strings.TrimSpace(m.cfg.SiteTitle)
	if title == "" {
		title = "blog preview"
	}
	if m.loadErr != nil {
		return fmt.Sprintf("%s (load failed: %v)", title, m.loadErr)
	}
	return title
}

func (m *Model) detailBody() string {
	if m.selected == nil {
		return subtleStyle.Render("no post selected")
	}
	post := m.selected

	var b strings.Builder
	b.WriteString(titleStyle.Render(post.Title))
	b.WriteString("\n")
	meta := post.PublishedAt.Format("2006-01-02")
	if len(post.Tags) > 0 {
		meta += " · " + strings.Join(post.Tags, ", ")
	}
	if post.Draft {
		meta += " · draft"
	}
	b.WriteString(subtleStyle.Render(meta))
	b.WriteString("\n\n")
	b.WriteString(truncateLines(post.Body, m.contentHeight()-4))
	return b.String()
}

func (m *Model) counterBody() string {
	label := strings.TrimSpace(m.cfg.CounterLabel)
	if label == "" {
		label = "Counter"
	}
	return fmt.Sprintf("%s: %s", label, counterStyle.Render(fmt.Sprintf("%d", m.counterValue)))
}

func (m *Model) listWidth() int {
	if m.width <= 0 {
		return 30
	}
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	return w
}

func (m *Model) detailWidth() int {
	if m.width <= 0 {
		return 50
	}
	w := m.width - m.listWidth() - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) contentHeight() int {
	if m.height <= 0 {
		return 20
	}
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	return h
}

func truncateLines(text string, max int) string {
	if max <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= max {
		return text
	}
	return strings.Join(lines[:max], "\n") + "\n" + subtleStyle.Render("…")
}

func itemsFromPosts(posts []*content.Post) []list.Item {
	items := make([]list.Item, 0, len(posts))
	for _, post := range posts {
		items = append(items, postItem{post: post})
	}
	return items
}

type postItem struct {
	post *content.Post
}

func (p postItem) Title() string { return p.post.Title }

func (p postItem) Description() string {
	desc := p.post.PublishedAt.Format("2006-01-02")
	if p.post.Draft {
		desc += " (draft)"
	}
	return desc
}

func (p postItem) FilterValue() string { return p.post.Title }
