package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/ragchat/internal/controller"
	"github.com/diogo/ragchat/internal/models"
	"github.com/diogo/ragchat/internal/render"
)

// Seams replaced in tests
var (
	loadDocument   = models.LoadDocument
	writeClipboard = clipboard.WriteAll
)

// Animation tick message
type animationTickMsg time.Time

// stateChangedMsg is delivered whenever the controller signals an update
type stateChangedMsg struct{}

type copiedMsg struct {
	err error
}

// failureMsg carries an operation error reported by the controller
type failureMsg struct {
	err error
}

// ChatController is the part of the conversation controller the TUI drives
type ChatController interface {
	SendMessage(text string) bool
	UploadDocument(doc *models.Document) bool
	TriggerIndexing() bool
	SetDraft(text string)
	Snapshot() controller.State
	Updates() <-chan struct{}
}

// Options configures the chat interface
type Options struct {
	ServerURL string
	Render    render.Options

	// Failures delivers operation errors to the error line
	Failures <-chan error
}

// Model represents the TUI state
type Model struct {
	ctrl ChatController
	opts Options

	// UI components
	viewport  viewport.Model
	textarea  textarea.Model
	pathInput textinput.Model
	spinner   spinner.Model

	// State
	state          controller.State
	prompting      bool // upload path prompt is open
	ready          bool
	animating      bool
	animationFrame int
	err            error
	status         string

	width  int
	height int
}

// NewChatModel creates a chat model bound to ctrl
func NewChatModel(ctrl ChatController, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask something about your documents..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	pi := textinput.New()
	pi.Placeholder = "path/to/document.pdf"
	pi.CharLimit = 1024

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	if opts.Render.Width == 0 {
		opts.Render = render.DefaultOptions()
	}

	return Model{
		ctrl:      ctrl,
		opts:      opts,
		textarea:  ta,
		pathInput: pi,
		spinner:   s,
		state:     ctrl.Snapshot(),
	}
}

// Init starts listening for controller updates
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		waitForUpdate(m.ctrl.Updates()),
	}
	if m.opts.Failures != nil {
		cmds = append(cmds, waitForFailure(m.opts.Failures))
	}
	return tea.Batch(cmds...)
}

func waitForUpdate(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return stateChangedMsg{}
	}
}

func waitForFailure(failures <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-failures
		if !ok {
			return nil
		}
		return failureMsg{err: err}
	}
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		noticeHeight := 1
		inputHeight := 5
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - noticeHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.pathInput.Width = contentWidth - 8
		m.updateViewport()

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			return m.submit()

		case "ctrl+u":
			m.prompting = true
			m.err = nil
			m.pathInput.Reset()
			m.textarea.Blur()
			return m, m.pathInput.Focus()

		case "ctrl+r":
			if !m.state.Indexing {
				m.ctrl.TriggerIndexing()
				m.refresh()
			}
			return m, nil

		case "ctrl+y":
			return m, m.copyLastAnswer()
		}

		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.ctrl.SetDraft(m.textarea.Value())

	case stateChangedMsg:
		m.refresh()
		cmds = append(cmds, waitForUpdate(m.ctrl.Updates()))
		if m.state.Sending && !m.animating {
			m.animating = true
			cmds = append(cmds, animationTick(), m.spinner.Tick)
		}

	case animationTickMsg:
		if m.state.Sending {
			m.animationFrame++
			m.updateViewport()
			cmds = append(cmds, animationTick())
		} else {
			m.animating = false
		}

	case spinner.TickMsg:
		if m.state.Sending {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case failureMsg:
		m.err = msg.err
		m.status = ""
		cmds = append(cmds, waitForFailure(m.opts.Failures))

	case copiedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "Copied last answer to clipboard"
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles Enter in the message input
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
		return m, tea.Quit
	}

	if !m.state.CanSend(input) {
		return m, nil
	}

	if m.ctrl.SendMessage(input) {
		m.textarea.Reset()
		m.err = nil
		m.status = ""
		m.refresh()
		m.viewport.GotoBottom()
		if !m.animating {
			m.animating = true
			m.animationFrame = 0
			return m, tea.Batch(animationTick(), m.spinner.Tick)
		}
	}
	return m, nil
}

// updatePrompt handles keys while the upload path prompt is open
func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.closePrompt()
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		doc, err := loadDocument(expandHome(path))
		if err != nil {
			m.err = err
			return m, nil
		}
		m.closePrompt()
		m.ctrl.UploadDocument(doc)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.pathInput.Blur()
	m.textarea.Focus()
}

// refresh pulls a fresh snapshot from the controller
func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom()
	m.state = m.ctrl.Snapshot()
	m.updateViewport()
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) copyLastAnswer() tea.Cmd {
	var answer string
	for i := len(m.state.Messages) - 1; i >= 0; i-- {
		if m.state.Messages[i].Role == models.RoleAssistant {
			answer = m.state.Messages[i].Content
			break
		}
	}
	if answer == "" {
		return nil
	}
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(answer)}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	// Header
	headerParts := []string{
		titleStyle.Render("✦ RAG Assistant"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.opts.ServerURL),
	}
	if m.state.Indexing {
		headerParts = append(headerParts, hintStyle.Render("  •  "), badgeStyle.Render("indexing"))
	}
	if m.state.Uploads > 0 {
		headerParts = append(headerParts, hintStyle.Render("  •  "),
			badgeStyle.Render(fmt.Sprintf("%d upload(s)", m.state.Uploads)))
	}
	sections = append(sections, headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)))

	// Notice slot, always one line so the layout does not jump
	sections = append(sections, noticeStyle.Width(contentWidth).Render(m.state.Notice))

	// Messages
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	// Input
	var inputContent string
	if m.prompting {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("Upload file (.pdf, .docx, .txt)"),
			m.pathInput.View(),
		)
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	} else if m.status != "" {
		sections = append(sections, hintStyle.Render(m.status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSearching renders the placeholder shown after the messages while a send is in flight
func (m Model) renderSearching() string {
	frame := m.animationFrame

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextDim).Render("○"))
		}
	}

	label := assistantLabelStyle.Render("✦ Assistant")
	text := lipgloss.NewStyle().Foreground(colorText).Render(" Searching your documents ")
	return label + "\n" + m.spinner.View() + text + dots.String()
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key      string
		desc     string
		disabled bool
	}{
		{"Enter", "Send", !m.state.CanSend(m.textarea.Value())},
		{"^U", "Upload", false},
		{"^R", indexLabel(m.state.Indexing), m.state.Indexing},
		{"^Y", "Copy", false},
		{"Esc", "Quit", false},
	}

	var items []string
	for _, s := range shortcuts {
		desc := statusDescStyle.Render(" " + s.desc)
		if s.disabled {
			desc = statusDisabledStyle.Render(" " + s.desc)
		}
		items = append(items, statusKeyStyle.Render(s.key)+desc)
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

func indexLabel(indexing bool) string {
	if indexing {
		return "Indexing..."
	}
	return "Index"
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range m.state.Messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			label := userLabelStyle.Render("⬤ You") + " " + timestampStyle.Render(msg.Timestamp)
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Assistant") + " " + timestampStyle.Render(msg.Timestamp)

			opts := m.opts.Render.WithWidth(bubbleWidth - 4)
			rendered, err := render.Markdown(msg.Content, opts)
			if err != nil {
				rendered = msg.Content
			}
			rendered = strings.TrimRight(rendered, "\n")

			if titles := (&models.Answer{Sources: msg.Sources}).SourceTitles(); len(titles) > 0 {
				rendered += "\n" + sourcesStyle.Render(render.SourcesLine(titles))
			}

			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	if m.state.Sending {
		content.WriteString("\n" + m.renderSearching() + "\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI
func RunChat(ctrl ChatController, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(ctrl, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
