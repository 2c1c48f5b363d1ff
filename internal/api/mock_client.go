package api

import (
	"context"
	"sync"

	"github.com/diogo/ragchat/internal/models"
)

// MockRAGClient is a mock implementation of RAGClientInterface for testing
type MockRAGClient struct {
	// Mock return values
	AskVal     *models.Answer
	AskErr     error
	UploadVal  *models.UploadResult
	UploadErr  error
	IndexErr   error
	HealthErr  error
	HistoryVal []models.QAHistoryItem
	HistoryErr error
	BaseURLVal string

	// Call counters/recorders
	mu           sync.Mutex
	AskCalls     int
	UploadCalls  int
	IndexCalls   int
	HealthCalls  int
	HistoryCalls int
	CloseCalled  bool
	LastQuestion string
	LastDocument *models.Document
}

// Ensure MockRAGClient implements RAGClientInterface
var _ RAGClientInterface = (*MockRAGClient)(nil)

func (m *MockRAGClient) Ask(ctx context.Context, question string) (*models.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AskCalls++
	m.LastQuestion = question
	if m.AskErr != nil {
		return nil, m.AskErr
	}
	if m.AskVal == nil {
		return &models.Answer{}, nil
	}
	return m.AskVal, nil
}

func (m *MockRAGClient) Upload(ctx context.Context, doc *models.Document) (*models.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadCalls++
	m.LastDocument = doc
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	if m.UploadVal == nil && doc != nil {
		return &models.UploadResult{FileName: doc.Name}, nil
	}
	return m.UploadVal, nil
}

func (m *MockRAGClient) Index(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IndexCalls++
	return m.IndexErr
}

func (m *MockRAGClient) Health(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HealthCalls++
	return m.HealthErr
}

func (m *MockRAGClient) History(ctx context.Context) ([]models.QAHistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HistoryCalls++
	return m.HistoryVal, m.HistoryErr
}

func (m *MockRAGClient) BaseURL() string {
	if m.BaseURLVal == "" {
		return models.DefaultServerURL
	}
	return m.BaseURLVal
}

func (m *MockRAGClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

// Calls returns the number of ask, upload and index calls so far
func (m *MockRAGClient) Calls() (ask, upload, index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AskCalls, m.UploadCalls, m.IndexCalls
}
