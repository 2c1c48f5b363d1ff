package controller

import (
	"context"
	"sync"
	"time"

	"github.com/diogo/ragchat/internal/models"
)

var fixedTime = time.Date(2024, 3, 9, 14, 7, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// gate blocks a fake collaborator until released
type gate chan struct{}

func newGate() gate { return make(gate) }

func (g gate) wait(ctx context.Context) {
	if g == nil {
		return
	}
	select {
	case <-g:
	case <-ctx.Done():
	}
}

func (g gate) release() { close(g) }

type fakeAsker struct {
	mu      sync.Mutex
	gate    gate
	answer  *models.Answer
	err     error
	calls   []string
	lastCtx context.Context
}

func (f *fakeAsker) Ask(ctx context.Context, question string) (*models.Answer, error) {
	f.mu.Lock()
	f.calls = append(f.calls, question)
	f.lastCtx = ctx
	g := f.gate
	f.mu.Unlock()

	g.wait(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answer, f.err
}

func (f *fakeAsker) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeUploader struct {
	mu    sync.Mutex
	gates map[string]gate
	errs  map[string]error
	docs  []string
}

func (f *fakeUploader) Upload(ctx context.Context, doc *models.Document) (*models.UploadResult, error) {
	f.mu.Lock()
	f.docs = append(f.docs, doc.Name)
	g := f.gates[doc.Name]
	f.mu.Unlock()

	g.wait(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[doc.Name]; err != nil {
		return nil, err
	}
	return &models.UploadResult{FileName: doc.Name}, nil
}

func (f *fakeUploader) Docs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.docs...)
}

type fakeIndexer struct {
	mu    sync.Mutex
	gate  gate
	err   error
	calls int
}

func (f *fakeIndexer) Index(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	g := f.gate
	f.mu.Unlock()

	g.wait(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeIndexer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakes struct {
	asker    *fakeAsker
	uploader *fakeUploader
	indexer  *fakeIndexer
}

func newFakes() *fakes {
	return &fakes{
		asker:    &fakeAsker{},
		uploader: &fakeUploader{gates: map[string]gate{}, errs: map[string]error{}},
		indexer:  &fakeIndexer{},
	}
}

func (f *fakes) collaborators() Collaborators {
	return Collaborators{Asker: f.asker, Uploader: f.uploader, Indexer: f.indexer}
}

func doc(name string) *models.Document {
	return &models.Document{Name: name, MIMEType: "text/plain", Data: []byte("content of " + name)}
}

// manualTimers records scheduled notice clears so tests fire them by hand
type manualTimers struct {
	mu      sync.Mutex
	pending []scheduledClear
}

type scheduledClear struct {
	after time.Duration
	fire  func()
}

func (m *manualTimers) afterFunc(d time.Duration, fire func()) *time.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, scheduledClear{after: d, fire: fire})
	// a real timer that never fires, so Stop keeps working
	return time.AfterFunc(time.Hour, func() {})
}

func (m *manualTimers) option() Option {
	return func(o *options) { o.afterFunc = m.afterFunc }
}

func (m *manualTimers) scheduled() []scheduledClear {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]scheduledClear(nil), m.pending...)
}
