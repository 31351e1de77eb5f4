// internal/progress/tui.go
// Package: progress
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/spmvsweep/internal/harness"
)

const recentResults = 5

type sweepStartMsg struct{ total int }

type pointStartMsg struct {
	index int
	point harness.SweepPoint
}

type repeatDoneMsg struct {
	repeat, repeats int
	failed          bool
}

type pointDoneMsg struct {
	index   int
	point   harness.SweepPoint
	runs    int
	repeats int
	failed  bool
}

type sweepDoneMsg struct{ aborted bool }

type resultLine struct {
	point  harness.SweepPoint
	runs   int
	total  int
	failed bool
}

// model is the bubbletea state of the live view. It only ever sees copies
// of sweep data delivered as messages.
type model struct {
	spinner  spinner.Model
	bar      progressbar.Model
	start    time.Time
	total    int
	done     int
	failed   int
	current  *harness.SweepPoint
	repeat   int
	repeats  int
	badRuns  int
	recent   []resultLine
	finished bool
	aborted  bool
}

func newModel() *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &model{
		spinner: s,
		bar:     progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithWidth(40)),
		start:   time.Now(),
	}
}

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 20
		if w > 60 {
			w = 60
		}
		if w > 10 {
			m.bar.Width = w
		}
		return m, nil

	case sweepStartMsg:
		m.total = msg.total
		m.start = time.Now()
		return m, nil

	case pointStartMsg:
		p := msg.point
		m.current = &p
		m.repeat = 0
		m.repeats = 0
		return m, nil

	case repeatDoneMsg:
		m.repeat = msg.repeat
		m.repeats = msg.repeats
		if msg.failed {
			m.badRuns++
		}
		return m, nil

	case pointDoneMsg:
		m.done++
		if msg.failed {
			m.failed++
		}
		m.current = nil
		m.recent = append(m.recent, resultLine{point: msg.point, runs: msg.runs, total: msg.repeats, failed: msg.failed})
		if len(m.recent) > recentResults {
			m.recent = m.recent[len(m.recent)-recentResults:]
		}
		return m, nil

	case sweepDoneMsg:
		if m.finished {
			return m, nil
		}
		m.finished = true
		m.aborted = msg.aborted
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m *model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faint := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("SpMV sweep"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %d/%d points", m.bar.ViewAs(m.percent()), m.done, m.total)
	if m.failed > 0 {
		b.WriteString("  " + failStyle.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	b.WriteString("\n")

	switch {
	case m.finished && m.aborted:
		b.WriteString(failStyle.Render("Sweep aborted") + "\n")
	case m.finished:
		fmt.Fprintf(&b, "Done in %s\n", time.Since(m.start).Round(time.Second))
	case m.current != nil:
		rep := ""
		if m.repeats > 0 {
			rep = fmt.Sprintf(" (repeat %d/%d done)", m.repeat, m.repeats)
		}
		fmt.Fprintf(&b, "%s Running %s%s\n", m.spinner.View(), m.current, rep)
	default:
		fmt.Fprintf(&b, "%s Waiting\n", m.spinner.View())
	}

	if len(m.recent) > 0 {
		b.WriteString("\n")
		for _, r := range m.recent {
			if r.failed {
				b.WriteString(failStyle.Render("FAILED") + " " + r.point.String() + "\n")
				continue
			}
			fmt.Fprintf(&b, "%s %s %s\n", okStyle.Render("ok"), r.point, faint.Render(fmt.Sprintf("(%d/%d runs)", r.runs, r.total)))
		}
	}
	if m.badRuns > 0 {
		b.WriteString(faint.Render(fmt.Sprintf("%d failed repeat(s) so far", m.badRuns)) + "\n")
	}
	return b.String()
}

// TUI drives a bubbletea program from sweep events. The program reads no
// input and installs no signal handlers; interrupts are handled by the
// caller's context.
type TUI struct {
	program *tea.Program
	done    chan struct{}
	err     error
}

// NewTUI starts the live view on w.
func NewTUI(w io.Writer) *TUI {
	t := &TUI{done: make(chan struct{})}
	t.program = tea.NewProgram(newModel(),
		tea.WithInput(nil),
		tea.WithOutput(w),
		tea.WithoutSignalHandler(),
	)
	go func() {
		defer close(t.done)
		_, t.err = t.program.Run()
	}()
	return t
}

func (t *TUI) OnSweepStart(total int) {
	t.program.Send(sweepStartMsg{total: total})
}

func (t *TUI) OnPointStart(index, _ int, point harness.SweepPoint) {
	t.program.Send(pointStartMsg{index: index, point: point})
}

func (t *TUI) OnRepeatDone(_ harness.SweepPoint, repeat, repeats int, err error) {
	t.program.Send(repeatDoneMsg{repeat: repeat, repeats: repeats, failed: err != nil})
}

func (t *TUI) OnPointDone(index, _ int, point harness.SweepPoint, rec *harness.Record, _ error) {
	msg := pointDoneMsg{index: index, point: point, failed: rec == nil}
	if rec != nil {
		msg.runs = rec.SuccessfulRuns
		msg.repeats = rec.Repeats
	}
	t.program.Send(msg)
}

func (t *TUI) OnSweepDone(*harness.Dataset) {
	t.program.Send(sweepDoneMsg{})
}

// Close stops the view and waits for the terminal to be restored. If the
// sweep did not finish, the view is marked aborted.
func (t *TUI) Close() error {
	t.program.Send(sweepDoneMsg{aborted: true})
	<-t.done
	return t.err
}
