package models

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	apierrors "github.com/diogo/ragchat/internal/errors"
)

// MaxDocumentSize is the largest file accepted for upload
const MaxDocumentSize = 50 * 1024 * 1024 // 50MB

// SupportedExtensions returns the document extensions the server accepts
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt"}
}

// Document is a file payload ready to be sent to the upload endpoint
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Size returns the payload size in bytes
func (d *Document) Size() int64 {
	return int64(len(d.Data))
}

// IsSupportedDocument reports whether path has an accepted extension
func IsSupportedDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// LoadDocument reads a file from disk and validates it for upload
func LoadDocument(path string) (*Document, error) {
	name := filepath.Base(path)

	if !IsSupportedDocument(path) {
		return nil, apierrors.NewUploadError(name, apierrors.ErrUnsupportedDocument)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apierrors.NewUploadError(name, fmt.Errorf("failed to stat file: %w", err))
	}
	if info.IsDir() {
		return nil, apierrors.NewUploadError(name, fmt.Errorf("%s is a directory", path))
	}
	if info.Size() > MaxDocumentSize {
		return nil, apierrors.NewUploadError(name, apierrors.ErrDocumentTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apierrors.NewUploadError(name, fmt.Errorf("failed to read file: %w", err))
	}

	return &Document{
		Name:     name,
		MIMEType: detectMIMEType(name),
		Data:     data,
	}, nil
}

func detectMIMEType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
