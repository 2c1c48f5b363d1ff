package watcher

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/diogo/ragchat/internal/models"
)

// Target receives the documents picked up by the watcher
type Target interface {
	UploadDocument(doc *models.Document) bool
	TriggerIndexing() bool
	Wait()
}

// Syncer uploads every event's document to a Target
type Syncer struct {
	Target Target
	Logger zerolog.Logger

	// IndexAfterUpload re-indexes once each upload has settled
	IndexAfterUpload bool

	// OnUpload is called after an upload has been started
	OnUpload func(ev Event, doc *models.Document)

	load func(path string) (*models.Document, error)
}

// Run consumes events until the channel closes or ctx is done.
// It returns the number of uploads started.
func (s *Syncer) Run(ctx context.Context, events <-chan Event) int {
	load := s.load
	if load == nil {
		load = models.LoadDocument
	}

	uploaded := 0
	for {
		select {
		case <-ctx.Done():
			return uploaded
		case ev, ok := <-events:
			if !ok {
				return uploaded
			}

			doc, err := load(ev.Path)
			if err != nil {
				s.Logger.Warn().Err(err).Str("path", ev.Path).Msg("skipping document")
				continue
			}

			if !s.Target.UploadDocument(doc) {
				continue
			}
			uploaded++
			s.Logger.Debug().
				Str("path", ev.Path).
				Stringer("op", ev.Operation).
				Int64("size", doc.Size()).
				Msg("upload started")

			if s.OnUpload != nil {
				s.OnUpload(ev, doc)
			}

			if s.IndexAfterUpload {
				s.Target.Wait()
				s.Target.TriggerIndexing()
			}
		}
	}
}
