// Package ui renders live progress of a multi-file expand run.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"seqgen/internal/buildpipeline"
)

// stageInfo: подпись рабочего состояния и доля пути до готовности.
var stageInfo = map[buildpipeline.Stage]struct {
	label  string
	weight float64
}{
	buildpipeline.StageLoad:   {"loading", 0},
	buildpipeline.StageCache:  {"cache", 0.05},
	buildpipeline.StageLex:    {"lexing", 0.2},
	buildpipeline.StageTree:   {"grouping", 0.4},
	buildpipeline.StageExpand: {"expanding", 0.6},
	buildpipeline.StageRender: {"rendering", 0.9},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

const (
	statusWidth  = 10
	minNameWidth = 20
)

type fileItem struct {
	path   string
	status string
	weight float64
	final  bool
	err    string
}

func (it *fileItem) apply(ev buildpipeline.Event) (finished bool) {
	if it.final {
		return false
	}
	if ev.Status == buildpipeline.StatusWorking {
		if info, ok := stageInfo[ev.Stage]; ok {
			it.status, it.weight = info.label, info.weight
		}
	} else if ev.Status != "" {
		it.status = string(ev.Status)
	}
	if ev.Err != nil {
		it.err = ev.Err.Error()
	}
	if ev.Status.Finished() {
		it.final, it.weight = true, 1
		return true
	}
	return false
}

func (it *fileItem) style() lipgloss.Style {
	switch it.status {
	case string(buildpipeline.StatusDone), string(buildpipeline.StatusCached):
		return okStyle
	case string(buildpipeline.StatusError):
		return failStyle
	case string(buildpipeline.StatusQueued):
		return idleStyle
	}
	return workingStyle
}

type progressModel struct {
	title    string
	events   <-chan buildpipeline.Event
	spinner  spinner.Model
	bar      progress.Model
	items    []fileItem
	byPath   map[string]*fileItem
	finished int
	width    int
	done     bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders one line per
// template. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(workingStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		items:   make([]fileItem, len(files)),
		byPath:  make(map[string]*fileItem, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.items[i] = fileItem{path: file, status: string(buildpipeline.StatusQueued)}
		m.byPath[file] = &m.items[i]
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitEvent())
}

func (m *progressModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		cmd = tea.Batch(m.applyEvent(buildpipeline.Event(msg)), m.waitEvent())
	case doneMsg:
		m.done = true
		cmd = tea.Quit
	case spinner.TickMsg:
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	}
	return m, cmd
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	item, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	if item.apply(ev) {
		m.finished++
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for i := range m.items {
		sum += m.items[i].weight
	}
	return sum / float64(len(m.items))
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s [%d/%d]", m.title, m.finished, len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header) + "\n\n")
	nameWidth := max(m.width-statusWidth-4, minNameWidth)
	for i := range m.items {
		it := &m.items[i]
		name := it.path
		if it.err != "" {
			name += "  " + it.err
		}
		status := it.style().Render(fmt.Sprintf("%*s", statusWidth, it.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(name, nameWidth))
	}
	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// truncate shortens value to width terminal cells, with "..." when there
// is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
