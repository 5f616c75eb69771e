package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/csheth/portal/internal/config"
	"github.com/csheth/portal/internal/logging"
	"github.com/csheth/portal/internal/nav"
	"github.com/csheth/portal/internal/upload"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Uploader upload.Uploader
	// Endpoint is only displayed; Uploader decides where files go.
	Endpoint   string
	StartDir   string
	ShowHidden bool
	Logger     logrus.FieldLogger
	// Clipboard receives the status message on "y". Defaults to the system clipboard.
	Clipboard func(string) error
}

// New returns a tea.Model ready to be mounted into a Program.
func New(cfg Config) tea.Model {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}

	startDir := config.ExpandPath(cfg.StartDir)
	if startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			startDir = wd
		}
	}

	picker := filepicker.New()
	picker.CurrentDirectory = startDir
	picker.ShowHidden = cfg.ShowHidden
	picker.DirAllowed = false
	picker.FileAllowed = true
	picker.AutoHeight = false
	picker.Height = defaultPickerRow

	pathInput := textinput.New()
	pathInput.Placeholder = "/path/to/file"
	pathInput.CharLimit = 4096
	pathInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &model{
		config:    cfg,
		log:       cfg.Logger.WithField("component", "tui"),
		nav:       nav.New(),
		session:   upload.NewSession(cfg.Uploader),
		jobs:      newJobBus(cfg.Logger),
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   spin,
		picker:    picker,
		pathInput: pathInput,
		layout:    newPageLayout(),
	}
}

type model struct {
	config Config
	log    logrus.FieldLogger

	nav     *nav.Controller
	session *upload.Session
	jobs    *jobBus
	keys    keyMap

	help      help.Model
	spinner   spinner.Model
	picker    filepicker.Model
	pathInput textinput.Model
	layout    pageLayout

	stage        uploadStage
	menuCursor   int
	fileInfo     *upload.FileInfo
	loadingFile  bool
	infoMessage  string
	errorMessage string
	lastJob      *jobSnapshot
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.session.Status().InFlight() || m.loadingFile {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.picker.Height = m.layout.pickerHeight
		m.help.Width = m.layout.contentWidth
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		return m, m.handleKey(msg)
	case jobSignalMsg:
		snapshot := msg.Snapshot
		m.lastJob = &snapshot
		return m, nil
	case jobResultEnvelope:
		snapshot := msg.Snapshot
		m.lastJob = &snapshot
		return m.Update(msg.Payload)
	case fileLoadedMsg:
		return m, m.handleFileLoaded(msg)
	case uploadResultMsg:
		m.handleUploadResult(msg)
		return m, nil
	}

	if m.stage == uploadStagePicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.stage {
	case uploadStagePicker:
		return m.handlePickerKey(msg)
	case uploadStagePath:
		return m.handlePathKey(msg)
	}

	switch m.nav.Current() {
	case nav.Home:
		return m.handleHomeKey(msg)
	case nav.Business, nav.Support:
		return m.handleInfoKey(msg)
	case nav.Upload:
		return m.handleUploadKey(msg)
	default:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.navigate(nav.Home)
		}
		return nil
	}
}

func (m *model) handleHomeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < len(homeMenu)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keys.Open):
		m.navigate(homeMenu[m.menuCursor].View)
	case key.Matches(msg, m.keys.Shortcut):
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(homeMenu) {
			m.menuCursor = idx
			m.navigate(homeMenu[idx].View)
		}
	}
	return nil
}

func (m *model) handleInfoKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.navigate(nav.Home)
	}
	return nil
}

func (m *model) handleUploadKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.navigate(nav.Home)
	case key.Matches(msg, m.keys.Browse):
		return m.openPicker()
	case key.Matches(msg, m.keys.TypePath):
		return m.openPathInput()
	case key.Matches(msg, m.keys.Submit):
		return m.submitUpload()
	case key.Matches(msg, m.keys.Copy):
		m.copyStatus()
	}
	return nil
}

func (m *model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Cancel) {
		m.cancelSelection()
		return nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.stage = uploadStageIdle
		return tea.Batch(cmd, m.loadFile(path))
	}
	return cmd
}

func (m *model) handlePathKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.cancelSelection()
		return nil
	case tea.KeyEnter:
		path := m.pathInput.Value()
		m.pathInput.SetValue("")
		m.pathInput.Blur()
		m.stage = uploadStageIdle
		if path == "" {
			m.infoMessage = "No path entered; selection unchanged."
			return nil
		}
		return m.loadFile(path)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return cmd
}

func (m *model) navigate(target nav.View) {
	from := m.nav.Current()
	m.nav.NavigateTo(target)
	m.errorMessage = ""
	m.infoMessage = ""
	m.log.WithFields(logrus.Fields{"from": from.String(), "to": target.String()}).Debug("navigate")
}

func (m *model) openPicker() tea.Cmd {
	if m.session.Status().InFlight() {
		m.infoMessage = "Wait for the current upload to finish before choosing another file."
		return nil
	}
	m.stage = uploadStagePicker
	m.errorMessage = ""
	m.infoMessage = "Choose a file, esc to cancel."
	return m.picker.Init()
}

func (m *model) openPathInput() tea.Cmd {
	if m.session.Status().InFlight() {
		m.infoMessage = "Wait for the current upload to finish before choosing another file."
		return nil
	}
	m.stage = uploadStagePath
	m.errorMessage = ""
	m.infoMessage = "Type a file path, enter to stage it, esc to cancel."
	m.pathInput.SetValue("")
	return m.pathInput.Focus()
}

// cancelSelection closes the picker without a file; the session is untouched.
func (m *model) cancelSelection() {
	m.stage = uploadStageIdle
	m.pathInput.Blur()
	m.pathInput.SetValue("")
	m.session.SelectFile(nil)
	m.infoMessage = "File selection canceled."
}

func (m *model) loadFile(path string) tea.Cmd {
	m.loadingFile = true
	m.infoMessage = "Reading file…"
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindLoadFile, loadFileJob(path)))
}

func (m *model) handleFileLoaded(msg fileLoadedMsg) tea.Cmd {
	m.loadingFile = false
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Selection unchanged."
		return nil
	}
	if !m.session.SelectFile(msg.file) {
		m.infoMessage = "Upload in progress; selection ignored."
		return nil
	}
	info := msg.info
	m.fileInfo = &info
	m.errorMessage = ""
	m.infoMessage = ""
	m.log.WithFields(logrus.Fields{"file": msg.file.Name, "bytes": msg.file.Size()}).Info("file staged")
	return nil
}

func (m *model) submitUpload() tea.Cmd {
	if m.session.Status().InFlight() {
		m.infoMessage = "Upload already in progress."
		return nil
	}
	attempt, err := m.session.Begin()
	if err != nil {
		if !errors.Is(err, upload.ErrNoFileSelected) {
			m.log.WithError(err).Warn("upload not started")
		}
		return nil
	}
	m.errorMessage = ""
	m.infoMessage = ""
	m.log.WithFields(logrus.Fields{"file": attempt.File().Name, "attempt": attempt.Seq()}).Info("upload started")
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindUpload, uploadJob(attempt)))
}

func (m *model) handleUploadResult(msg uploadResultMsg) {
	status := m.session.Settle(msg.outcome)
	if status.Phase == upload.PhaseSucceeded {
		m.fileInfo = nil
	}
	m.log.WithFields(logrus.Fields{"phase": status.Phase.String(), "message": status.Message}).Info("upload settled")
}

func (m *model) copyStatus() {
	message := m.session.Status().Message
	if message == "" {
		m.infoMessage = "Nothing to copy yet."
		return
	}
	if err := m.config.Clipboard(message); err != nil {
		m.errorMessage = fmt.Sprintf("clipboard unavailable: %v", err)
		return
	}
	m.infoMessage = "Status copied to clipboard."
}
