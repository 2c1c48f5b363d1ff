// Package controller owns the conversation with the RAG server: the message list,
// the draft being composed, and the status of the ask, upload and index operations.
//
// Every operation returns immediately. Network round trips run in their own
// goroutines and apply their result to the shared state in a single critical
// section, so readers never see a half-applied completion. Collaborator failures
// are absorbed: a failed ask becomes a fallback assistant message, a failed upload
// or index becomes a transient notice.
package controller

import (
	"context"
	"slices"
	"strings"
	"sync"

	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/models"
)

// Asker answers a question
type Asker interface {
	Ask(ctx context.Context, question string) (*models.Answer, error)
}

// Uploader stores a document on the server
type Uploader interface {
	Upload(ctx context.Context, doc *models.Document) (*models.UploadResult, error)
}

// Indexer rebuilds the server's search index
type Indexer interface {
	Index(ctx context.Context) error
}

// Backend is a single client serving all three operations
type Backend interface {
	Asker
	Uploader
	Indexer
}

// Collaborators are the endpoints the controller drives
type Collaborators struct {
	Asker    Asker
	Uploader Uploader
	Indexer  Indexer
}

// CollaboratorsFrom uses one backend for every operation
func CollaboratorsFrom(b Backend) Collaborators {
	return Collaborators{Asker: b, Uploader: b, Indexer: b}
}

// Controller is the conversation state machine
type Controller struct {
	collab Collaborators
	opts   options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	messages    []models.ConversationMessage
	draft       string
	sendStatus  Status
	indexStatus Status
	uploads     int
	notice      noticeSlot
	closed      bool

	updates chan struct{}
}

// New creates a controller whose conversation starts with the greeting
func New(collab Collaborators, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(o.ctx)
	c := &Controller{
		collab:  collab,
		opts:    o,
		ctx:     ctx,
		cancel:  cancel,
		updates: make(chan struct{}, 1),
	}
	c.notice.after = o.afterFunc
	c.messages = []models.ConversationMessage{
		c.newMessage(models.RoleAssistant, o.greeting),
	}
	return c
}

// SendMessage asks the server text, trimmed. It is ignored when the trimmed
// text is empty or another send is still in flight. The user message is
// visible as soon as SendMessage returns; exactly one assistant message
// follows once the round trip settles.
func (c *Controller) SendMessage(text string) bool {
	question := trimmed(text)

	c.mu.Lock()
	if c.closed || question == "" || c.sendStatus == StatusInFlight || c.collab.Asker == nil {
		c.mu.Unlock()
		return false
	}
	c.messages = append(c.messages, c.newMessage(models.RoleUser, question))
	c.draft = ""
	c.sendStatus = StatusInFlight
	c.wg.Add(1)
	c.mu.Unlock()
	c.notify()

	go c.runSend(question)
	return true
}

func (c *Controller) runSend(question string) {
	defer c.wg.Done()

	c.opts.logger.Debug().Str("question", question).Msg("asking")
	answer, err := c.collab.Asker.Ask(c.ctx, question)
	if err == nil && answer == nil {
		err = apierrors.ErrInvalidResponse
	}

	var reply models.ConversationMessage
	if err != nil {
		c.fail(OpSend, err)
		reply = c.newMessage(models.RoleAssistant, c.opts.fallbackText)
	} else {
		reply = c.newMessage(models.RoleAssistant, answer.Text)
		reply.Sources = slices.Clone(answer.Sources)
	}

	c.mu.Lock()
	c.messages = append(c.messages, reply)
	c.sendStatus = StatusIdle
	c.mu.Unlock()
	c.notify()
}

// UploadDocument sends doc to the server. It never touches the conversation
// and may overlap sends, indexing and other uploads. A nil doc is ignored.
func (c *Controller) UploadDocument(doc *models.Document) bool {
	if doc == nil {
		return false
	}

	c.mu.Lock()
	if c.closed || c.collab.Uploader == nil {
		c.mu.Unlock()
		return false
	}
	c.notice.set(models.NoticeUploading)
	c.uploads++
	c.wg.Add(1)
	c.mu.Unlock()
	c.notify()

	go c.runUpload(doc)
	return true
}

func (c *Controller) runUpload(doc *models.Document) {
	defer c.wg.Done()

	c.opts.logger.Debug().Str("file", doc.Name).Int64("size", doc.Size()).Msg("uploading")
	_, err := c.collab.Uploader.Upload(c.ctx, doc)

	text := models.NoticeUploadSucceeded
	if err != nil {
		c.fail(OpUpload, err)
		text = models.NoticeUploadFailed
	}

	c.mu.Lock()
	c.uploads--
	c.settleNotice(text)
	c.mu.Unlock()
	c.notify()
}

// TriggerIndexing asks the server to rebuild its index. It is ignored while
// a previous indexing request is still in flight.
func (c *Controller) TriggerIndexing() bool {
	c.mu.Lock()
	if c.closed || c.indexStatus == StatusInFlight || c.collab.Indexer == nil {
		c.mu.Unlock()
		return false
	}
	c.indexStatus = StatusInFlight
	c.notice.set(models.NoticeIndexing)
	c.wg.Add(1)
	c.mu.Unlock()
	c.notify()

	go c.runIndex()
	return true
}

func (c *Controller) runIndex() {
	defer c.wg.Done()

	c.opts.logger.Debug().Msg("indexing")
	err := c.collab.Indexer.Index(c.ctx)

	text := models.NoticeIndexSucceeded
	if err != nil {
		c.fail(OpIndex, err)
		text = models.NoticeIndexFailed
	}

	c.mu.Lock()
	c.indexStatus = StatusIdle
	c.settleNotice(text)
	c.mu.Unlock()
	c.notify()
}

// settleNotice writes a completion notice and schedules its clear. Lock held.
func (c *Controller) settleNotice(text string) {
	c.notice.set(text)
	if c.closed {
		return
	}
	c.notice.scheduleClear(c.opts.noticeTTL, c.clearNotice)
}

func (c *Controller) clearNotice(gen uint64) {
	c.mu.Lock()
	cleared := c.notice.clearIf(gen)
	c.mu.Unlock()
	if cleared {
		c.notify()
	}
}

// SetDraft replaces the text being composed
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	changed := c.draft != text
	c.draft = text
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// Draft returns the text being composed
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Submit sends the current draft
func (c *Controller) Submit() bool {
	return c.SendMessage(c.Draft())
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]models.ConversationMessage, len(c.messages))
	for i, msg := range c.messages {
		messages[i] = msg.Clone()
	}

	return State{
		Messages: messages,
		Draft:    c.draft,
		Sending:  c.sendStatus == StatusInFlight,
		Indexing: c.indexStatus == StatusInFlight,
		Uploads:  c.uploads,
		Notice:   c.notice.text,
	}
}

// SendStatus returns the phase of the ask operation
func (c *Controller) SendStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendStatus
}

// IndexStatus returns the phase of the index operation
func (c *Controller) IndexStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexStatus
}

// Notice returns the current notice text, "" when empty
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice.text
}

// Updates is signalled after every state change. Signals coalesce, so a
// receiver should read a fresh Snapshot each time it wakes.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// Wait blocks until every operation started so far has settled
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close rejects further operations, stops the notice timer and cancels the
// context handed to in-flight collaborator calls.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.notice.stop()
	c.mu.Unlock()

	c.cancel()
}

func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

func (c *Controller) fail(op Operation, err error) {
	c.opts.logger.Warn().Err(err).Str("op", string(op)).Msg("operation failed")
	if c.opts.onFailure != nil {
		c.opts.onFailure(op, err)
	}
}

func (c *Controller) newMessage(role models.Role, content string) models.ConversationMessage {
	return models.NewMessage(role, content, c.opts.now(), c.opts.timeFormat)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
