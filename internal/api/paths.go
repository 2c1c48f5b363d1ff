// Package api provides the HTTP client for the RAG question-answering server.
package api

// GJSON paths for extracting values from server responses.
const (
	// /ask
	PathAnswer  = "answer"
	PathSources = "sources"

	// Source object fields (relative to one source)
	PathSourceTitle = "title"
	PathSourceChunk = "chunk"

	// /upload
	PathUploadStatus   = "status"
	PathUploadFileName = "filename"

	// /history item fields (relative to one item)
	PathHistoryQuestion = "question"
	PathHistoryAnswer   = "answer"
	PathHistorySources  = "sources"
)
