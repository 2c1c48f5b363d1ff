// Package models contains data types and constants for the RAG assistant client.
package models

// Endpoints exposed by the RAG server, relative to the configured base URL
const (
	DefaultServerURL = "http://localhost:8000"

	EndpointAsk     = "/ask"
	EndpointUpload  = "/upload"
	EndpointIndex   = "/index"
	EndpointHealth  = "/healthcheck"
	EndpointHistory = "/history"
)

// Texts shown to the user by the conversation controller
const (
	DefaultGreeting = "Hi 👋 I'm RAG Assistant. I can help you with questions about your documents (TXT, PDF, DOCX, JSON...)."

	// FallbackAnswer replaces the assistant reply when an ask round trip fails
	FallbackAnswer = "Sorry, something went wrong. Please try again."

	NoticeUploading       = "Uploading..."
	NoticeUploadSucceeded = "Upload succeeded!"
	NoticeUploadFailed    = "Upload failed"
	NoticeIndexing        = "Indexing..."
	NoticeIndexSucceeded  = "Indexing succeeded!"
	NoticeIndexFailed     = "Indexing failed"
)

// DefaultHeaders returns the headers sent with every request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "ragchat/" + ClientVersion,
	}
}

// ClientVersion is reported in the User-Agent header
var ClientVersion = "0.1.0"
