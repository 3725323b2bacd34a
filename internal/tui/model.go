package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"conshell/internal/cmdtree"
	"conshell/internal/engine"
)

// Config is everything the TUI needs to stand up a local session.
type Config struct {
	Hostname string
	Banner   string
	Tree     *cmdtree.Directory
	Exec     engine.Executor
	Creds    engine.Credentials // nil disables access control
	Log      *zap.Logger
}

// AppModel holds the TUI state: one embedded shell session plus the
// widgets around it.
type AppModel struct {
	shell  *engine.Shell
	conn   *pipeConn
	screen *screen

	Viewport   viewport.Model
	Spin       spinner.Model
	WindowSize tea.WindowSizeMsg
	ready      bool
}

// InitialModel builds the model and activates the session.
func InitialModel(cfg Config) AppModel {
	scr := newScreen()
	conn := newPipeConn(scr)

	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	sh := engine.New(cfg.Tree, conn, cfg.Exec,
		engine.WithLogger(log),
		engine.WithHostname(cfg.Hostname),
		engine.WithBanner(cfg.Banner),
		engine.WithCredentials(cfg.Creds),
	)
	sh.Activate()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return AppModel{
		shell:  sh,
		conn:   conn,
		screen: scr,
		Spin:   sp,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.Spin.Tick
}
