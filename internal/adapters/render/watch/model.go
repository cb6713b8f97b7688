package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bnema/smsman-cli/internal/adapters/render/report"
	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultRefresh = time.Second

var ErrUnexpectedModel = errors.New("unexpected final watch model type")

// Session is the live rental state the view follows.
type Session interface {
	Rental(id domain.RequestID) (domain.Rental, bool)
	SetStatus(ctx context.Context, id domain.RequestID, status domain.RentalStatus) error
}

type Schedule interface {
	NextPoll(id domain.RequestID) (time.Time, bool)
}

type Options struct {
	// QuitOnCode ends the session as soon as a code arrives.
	QuitOnCode bool
	Refresh    time.Duration
	Now        func() time.Time
}

type refreshMsg struct{}

type statusDoneMsg struct {
	status domain.RentalStatus
	err    error
}

var keyStatuses = map[string]domain.RentalStatus{
	"r": domain.RentalStatusReady,
	"u": domain.RentalStatusUsed,
	"c": domain.RentalStatusClose,
	"x": domain.RentalStatusReject,
}

type model struct {
	ctx      context.Context
	session  Session
	schedule Schedule
	id       domain.RequestID
	opts     Options

	spinner  spinner.Model
	rental   domain.Rental
	nextPoll time.Time
	busy     bool
	err      error
	gone     bool
	done     bool
}

func newModel(ctx context.Context, session Session, schedule Schedule, id domain.RequestID, opts Options) model {
	if opts.Refresh <= 0 {
		opts.Refresh = defaultRefresh
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := model{
		ctx:      ctx,
		session:  session,
		schedule: schedule,
		id:       id,
		opts:     opts,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return tea.Batch(m.spinner.Tick, m.tick())
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.refresh()
		if m.done {
			return m, tea.Quit
		}
		return m, m.tick()
	case statusDoneMsg:
		m.busy = false
		m.err = msg.err
		m.refresh()
		if m.done {
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc", "ctrl+c":
		m.done = true
		return m, tea.Quit
	}

	status, ok := keyStatuses[key]
	if !ok || m.busy {
		return m, nil
	}

	m.busy = true
	m.err = nil
	ctx, session, id := m.ctx, m.session, m.id
	return m, func() tea.Msg {
		return statusDoneMsg{status: status, err: session.SetStatus(ctx, id, status)}
	}
}

func (m *model) refresh() {
	rental, ok := m.session.Rental(m.id)
	if !ok {
		m.gone = true
		m.done = true
		return
	}

	m.rental = rental
	m.nextPoll = time.Time{}
	if m.schedule != nil {
		if next, ok := m.schedule.NextPoll(m.id); ok {
			m.nextPoll = next
		}
	}

	switch {
	case rental.Status.Retires():
		m.done = true
	case m.opts.QuitOnCode && rental.SMSCode != "":
		m.done = true
	}
}

func (m model) View() string {
	if m.done {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	status := lipgloss.NewStyle().Bold(true).Foreground(report.StatusColor(string(m.rental.Status)))

	lines := []string{
		title.Render("Number " + domain.FormatNumber(m.rental.Number)),
		muted.Render(fmt.Sprintf("%s in %s, request %d", m.rental.ServiceName, m.rental.CountryName, m.rental.RequestID)),
		"status: " + status.Render(string(m.rental.Status)),
	}

	if m.rental.SMSCode != "" {
		code := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
		lines = append(lines, "code:   "+code.Render(m.rental.SMSCode))
	} else if m.rental.Status.IsPollable() {
		lines = append(lines, m.spinner.View()+" waiting for SMS"+m.countdown())
	}

	if m.busy {
		lines = append(lines, muted.Render("updating status..."))
	}
	if m.err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("error: "+m.err.Error()))
	}

	lines = append(lines, "", muted.Render(strings.Join([]string{"r ready", "u used", "c close", "x reject", "q quit"}, "  ")))
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m model) countdown() string {
	if m.nextPoll.IsZero() {
		return ""
	}
	remaining := m.nextPoll.Sub(m.opts.Now()).Round(time.Second)
	if remaining <= 0 {
		return ", checking now"
	}
	return fmt.Sprintf(", next check in %s", remaining)
}

// Run follows one rental until it retires, disappears, or the user quits,
// and returns the last state it saw.
func Run(ctx context.Context, session Session, schedule Schedule, id domain.RequestID, in io.Reader, out io.Writer, opts Options) (domain.Rental, error) {
	initial := newModel(ctx, session, schedule, id, opts)
	if initial.gone {
		return domain.Rental{}, fmt.Errorf("watch rental %d: not found", id)
	}

	p := tea.NewProgram(
		initial,
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return initial.rental, ctxErr
		}
		return domain.Rental{}, err
	}

	result, ok := finalModel.(model)
	if !ok {
		return domain.Rental{}, ErrUnexpectedModel
	}

	return result.rental, nil
}
