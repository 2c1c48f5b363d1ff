package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/ragchat/internal/api"
	"github.com/diogo/ragchat/internal/controller"
	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/models"
	"github.com/diogo/ragchat/internal/render"
)

func newTestModel(t *testing.T, mock *api.MockRAGClient) (Model, *controller.Controller) {
	t.Helper()
	ctrl := controller.New(controller.CollaboratorsFrom(mock), controller.WithNoticeTTL(time.Hour))
	t.Cleanup(ctrl.Close)

	m := NewChatModel(ctrl, Options{
		ServerURL: "http://rag.test",
		Render:    render.DefaultOptions().WithStyle(render.ThemeNoTTY),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), ctrl
}

func typeText(m Model, text string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: key})
	return updated.(Model), cmd
}

func settle(m Model, ctrl *controller.Controller) Model {
	ctrl.Wait()
	updated, _ := m.Update(stateChangedMsg{})
	return updated.(Model)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestView_BeforeReady(t *testing.T) {
	ctrl := controller.New(controller.CollaboratorsFrom(&api.MockRAGClient{}))
	defer ctrl.Close()

	m := NewChatModel(ctrl, Options{})
	if !strings.Contains(m.View(), "Initializing") {
		t.Errorf("expected initializing view, got %q", m.View())
	}
}

func TestView_ShowsGreeting(t *testing.T) {
	m, _ := newTestModel(t, &api.MockRAGClient{})

	view := m.View()
	for _, want := range []string{"RAG Assistant", "http://rag.test", "RAG Assistant. I can help you"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSendFlow(t *testing.T) {
	mock := &api.MockRAGClient{AskVal: &models.Answer{
		Text:    "Paris is the capital",
		Sources: []models.Source{{Title: "atlas.pdf"}},
	}}
	m, ctrl := newTestModel(t, mock)

	m = typeText(m, "capital of France?")
	if ctrl.Draft() != "capital of France?" {
		t.Errorf("draft = %q", ctrl.Draft())
	}

	m, _ = press(m, tea.KeyEnter)
	if m.textarea.Value() != "" {
		t.Errorf("textarea should be cleared, got %q", m.textarea.Value())
	}

	m = settle(m, ctrl)

	if mock.LastQuestion != "capital of France?" {
		t.Errorf("LastQuestion = %q", mock.LastQuestion)
	}
	state := m.state
	if len(state.Messages) != 3 {
		t.Fatalf("len(messages) = %d, want 3", len(state.Messages))
	}

	content := m.viewport.View()
	if !strings.Contains(content, "Paris is the capital") {
		t.Errorf("answer missing from viewport: %q", content)
	}
	if !strings.Contains(content, "Sources: atlas.pdf") {
		t.Errorf("sources missing from viewport: %q", content)
	}
}

func TestSend_EmptyInputIgnored(t *testing.T) {
	mock := &api.MockRAGClient{}
	m, ctrl := newTestModel(t, mock)

	m = typeText(m, "   ")
	m, cmd := press(m, tea.KeyEnter)
	ctrl.Wait()

	if cmd != nil {
		t.Error("expected no command for an empty send")
	}
	if ask, _, _ := mock.Calls(); ask != 0 {
		t.Errorf("ask calls = %d, want 0", ask)
	}
	if len(m.state.Messages) != 1 {
		t.Errorf("len(messages) = %d, want 1", len(m.state.Messages))
	}
}

func TestSend_ExitCommand(t *testing.T) {
	m, _ := newTestModel(t, &api.MockRAGClient{})
	m = typeText(m, "/quit")
	_, cmd := press(m, tea.KeyEnter)
	if !isQuit(cmd) {
		t.Error("expected /quit to quit")
	}
}

func TestEscQuits(t *testing.T) {
	m, _ := newTestModel(t, &api.MockRAGClient{})
	_, cmd := press(m, tea.KeyEsc)
	if !isQuit(cmd) {
		t.Error("expected esc to quit")
	}
}

func TestIndexKey(t *testing.T) {
	mock := &api.MockRAGClient{}
	m, ctrl := newTestModel(t, mock)

	m, _ = press(m, tea.KeyCtrlR)
	m = settle(m, ctrl)

	if _, _, index := mock.Calls(); index != 1 {
		t.Errorf("index calls = %d, want 1", index)
	}
	if m.state.Notice != models.NoticeIndexSucceeded {
		t.Errorf("notice = %q", m.state.Notice)
	}
	if !strings.Contains(m.View(), models.NoticeIndexSucceeded) {
		t.Error("notice should be visible")
	}
}

func TestUploadPrompt(t *testing.T) {
	var loaded string
	loadDocument = func(path string) (*models.Document, error) {
		loaded = path
		return &models.Document{Name: "notes.txt", Data: []byte("x")}, nil
	}
	defer func() { loadDocument = models.LoadDocument }()

	mock := &api.MockRAGClient{}
	m, ctrl := newTestModel(t, mock)

	m, _ = press(m, tea.KeyCtrlU)
	if !m.prompting {
		t.Fatal("expected upload prompt to open")
	}
	if !strings.Contains(m.View(), "Upload file") {
		t.Error("prompt label missing")
	}

	m = typeText(m, "notes.txt")
	m, _ = press(m, tea.KeyEnter)
	if m.prompting {
		t.Error("prompt should close after upload starts")
	}
	m = settle(m, ctrl)

	if loaded != "notes.txt" {
		t.Errorf("loaded = %q", loaded)
	}
	if mock.LastDocument == nil || mock.LastDocument.Name != "notes.txt" {
		t.Errorf("LastDocument = %+v", mock.LastDocument)
	}
	if m.state.Notice != models.NoticeUploadSucceeded {
		t.Errorf("notice = %q", m.state.Notice)
	}
	if len(m.state.Messages) != 1 {
		t.Error("upload must not touch the conversation")
	}
}

func TestUploadPrompt_LoadError(t *testing.T) {
	loadDocument = func(path string) (*models.Document, error) {
		return nil, apierrors.NewUploadError(path, apierrors.ErrUnsupportedDocument)
	}
	defer func() { loadDocument = models.LoadDocument }()

	mock := &api.MockRAGClient{}
	m, _ := newTestModel(t, mock)

	m, _ = press(m, tea.KeyCtrlU)
	m = typeText(m, "movie.mp4")
	m, _ = press(m, tea.KeyEnter)

	if !m.prompting {
		t.Error("prompt should stay open on error")
	}
	if m.err == nil {
		t.Fatal("expected load error")
	}
	if _, upload, _ := mock.Calls(); upload != 0 {
		t.Error("nothing should be uploaded")
	}

	m, _ = press(m, tea.KeyEsc)
	if m.prompting {
		t.Error("esc should close the prompt")
	}
}

func TestCopyLastAnswer(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	defer func() { writeClipboard = orig }()

	m, _ := newTestModel(t, &api.MockRAGClient{})
	m, cmd := press(m, tea.KeyCtrlY)
	if cmd == nil {
		t.Fatal("expected copy command")
	}

	updated, _ := m.Update(cmd())
	m = updated.(Model)

	if copied != models.DefaultGreeting {
		t.Errorf("copied = %q", copied)
	}
	if !strings.Contains(m.View(), "Copied") {
		t.Error("expected copy confirmation")
	}
}

func TestCopyLastAnswer_Error(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard") }
	defer func() { writeClipboard = orig }()
	m, _ := newTestModel(t, &api.MockRAGClient{})

	m, cmd := press(m, tea.KeyCtrlY)
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	if m.err == nil {
		t.Error("expected clipboard error")
	}
}

// stubController reports a fixed state
type stubController struct {
	state   controller.State
	updates chan struct{}
	indexed int
}

func (s *stubController) SendMessage(string) bool { return false }
func (s *stubController) UploadDocument(*models.Document) bool { return false }
func (s *stubController) TriggerIndexing() bool { s.indexed++; return true }
func (s *stubController) SetDraft(string) {}
func (s *stubController) Snapshot() controller.State { return s.state }
func (s *stubController) Updates() <-chan struct{} { return s.updates }

func TestView_InFlightStates(t *testing.T) {
	stub := &stubController{
		updates: make(chan struct{}),
		state: controller.State{
			Messages: []models.ConversationMessage{
				models.NewMessage(models.RoleUser, "question", time.Now(), nil),
			},
			Sending:  true,
			Indexing: true,
			Uploads:  2,
			Notice:   models.NoticeUploading,
		},
	}

	m := NewChatModel(stub, Options{ServerURL: "http://rag.test"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	view := m.View()
	for _, want := range []string{"Searching your documents", "indexing", "2 upload(s)", models.NoticeUploading, "Indexing..."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// index key is disabled while indexing
	m, _ = press(m, tea.KeyCtrlR)
	if stub.indexed != 0 {
		t.Error("ctrl+r must be ignored while indexing")
	}

	// enter is disabled while sending
	m = typeText(m, "another")
	_, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Error("enter must be ignored while sending")
	}
}

func TestStateChanged_RearmsListener(t *testing.T) {
	stub := &stubController{updates: make(chan struct{}, 1)}
	m := NewChatModel(stub, Options{})

	_, cmd := m.Update(stateChangedMsg{})
	if cmd == nil {
		t.Fatal("expected a command re-arming the update listener")
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	if got := expandHome("~/docs/a.pdf"); got != "/home/tester/docs/a.pdf" {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("docs/a.pdf"); got != "docs/a.pdf" {
		t.Errorf("expandHome = %q", got)
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("nil error should format as empty")
	}

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "api error with body",
			err:  apierrors.NewAPIErrorWithBody(500, "/ask", "boom", "internal failure"),
			want: []string{"HTTP Status: 500", "Endpoint: /ask", "internal failure"},
		},
		{
			name: "network error",
			err:  apierrors.NewNetworkError("ask", "/ask", errors.New("connection refused")),
			want: []string{"connection refused", "Is the RAG server running?"},
		},
		{
			name: "upload error",
			err:  apierrors.NewUploadError("movie.mp4", apierrors.ErrUnsupportedDocument),
			want: []string{"unsupported document type", ".pdf, .docx and .txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestUpdateTheme(t *testing.T) {
	defer UpdateTheme("")

	if !UpdateTheme("dracula") {
		t.Error("dracula should be a known theme")
	}
	if colorError != render.DraculaTheme.Error {
		t.Errorf("colorError = %v, want %v", colorError, render.DraculaTheme.Error)
	}

	if UpdateTheme("no-such-theme") {
		t.Error("unknown theme should report false")
	}
	if colorError != render.TokyoNightTheme.Error {
		t.Error("unknown theme should fall back to the default")
	}
}

func TestFailureMsg_ShowsError(t *testing.T) {
	failures := make(chan error, 1)
	ctrl := controller.New(controller.CollaboratorsFrom(&api.MockRAGClient{}))
	defer ctrl.Close()

	m := NewChatModel(ctrl, Options{Failures: failures})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	failures <- apierrors.NewAPIError(500, "/upload", "boom")
	updated, cmd := m.Update(waitForFailure(failures)())
	m = updated.(Model)

	if cmd == nil {
		t.Error("expected the failure listener to be re-armed")
	}
	if !strings.Contains(m.View(), "HTTP Status: 500") {
		t.Errorf("error line missing from view")
	}

	close(failures)
	if msg := waitForFailure(failures)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %#v", msg)
	}
}
