package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/glassdial/internal/audio"
	"github.com/san-kum/glassdial/internal/config"
	"github.com/san-kum/glassdial/internal/glass"
	"github.com/san-kum/glassdial/internal/input"
	"github.com/san-kum/glassdial/internal/render"
)

const (
	canvasCols      = 70
	canvasRows      = 18
	historyCapacity = 360
	rotateStep      = 2
	rotateStepBig   = 6
)

type TickMsg time.Time

// Model is the interactive dial surface. Key presses accumulate rotation
// between ticks; each tick drains the accumulator as that frame's delta
// and advances the session exactly once.
type Model struct {
	session *glass.Session
	acc     *input.Accumulator
	cues    *audio.Cues
	engine  *audio.Engine

	cfg       config.Config
	history   []float64
	paused    bool
	muted     bool
	showHelp  bool
	lastFrame glass.Frame
	width     int
	height    int
}

func NewModel(cfg config.Config) Model {
	session := glass.NewSession(cfg.GlassTuning(), cfg.Seed)

	var engine *audio.Engine
	haptic := audio.Haptic(audio.BellHaptic{W: os.Stdout})
	if cfg.Audio {
		engine = audio.NewEngine()
		if err := engine.Initialize(); err != nil {
			engine = nil
		}
	}
	cues := audio.NewCues(engine, haptic)
	session.Subscribe(cues)

	return Model{
		session: session,
		acc:     &input.Accumulator{},
		cues:    cues,
		engine:  engine,
		cfg:     cfg,
		history: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.cfg.FPS)
}

func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case TickMsg:
		if !m.paused {
			delta := input.Delta(m.acc)
			now := time.Now()
			m.session.Update(int(delta), now)
			m.lastFrame = m.session.Frame(now)

			m.history = append(m.history, m.lastFrame.Level)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, tickCmd(m.cfg.FPS)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.engine != nil {
			m.engine.Close()
		}
		return m, tea.Quit
	case "right", "l":
		m.acc.Add(rotateStep)
	case "left", "h":
		m.acc.Add(-rotateStep)
	case "L", "shift+right":
		m.acc.Add(rotateStepBig)
	case "H", "shift+left":
		m.acc.Add(-rotateStepBig)
	case "b":
		m.session.Submit(glass.CmdStepBack)
	case "r":
		m.session.Submit(glass.CmdFullReset)
	case " ":
		m.paused = !m.paused
	case "m":
		m.muted = !m.muted
		if m.muted {
			m.cues.Engine = nil
		} else {
			m.cues.Engine = m.engine
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("GLASSDIAL") + "  " +
		subStyle.Render("turn the dial, break the glass") + "\n\n")

	f := m.lastFrame
	status := StateLabel(f.State)
	if m.paused {
		status = pausedStyle.Render("PAUSED") + " " + status
	}
	s.WriteString(fmt.Sprintf("  %s\n", status))
	s.WriteString(fmt.Sprintf("  level %s %.3f\n", Gauge(f.Level, 30), f.Level))
	s.WriteString(subStyle.Render(fmt.Sprintf("  cracks %d  particles %d  in state %.1fs",
		len(f.Cracks), len(f.Particles), f.TimeInState.Seconds())) + "\n")
	if m.muted {
		s.WriteString(mutedStyle.Render("  [muted]") + "\n")
	}

	canvas := render.Render(f, canvasCols, canvasRows)
	s.WriteString(canvasStyle.Render(canvas.String()) + "\n")

	if len(m.history) > 8 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(60),
			asciigraph.LowerBound(0),
			asciigraph.Caption("destruction level"),
		)
		s.WriteString(graphStyle.Render(graph) + "\n")
	}

	if m.showHelp {
		s.WriteString(helpStyle.Render(
			"  h/l turn  H/L spin  b step back  r reset  space pause  m mute  q quit"))
	} else {
		s.WriteString(helpStyle.Render("  ? help  q quit"))
	}
	return s.String()
}

// Run starts the interactive program in the alternate screen.
func Run(cfg config.Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
