package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/controller"
	"github.com/diogo/ragchat/internal/models"
)

func newUploadCmd(a *app) *cobra.Command {
	var indexFlag bool

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload documents to the RAG server",
		Long: `Upload one or more documents (.pdf, .docx, .txt, up to 50MB each).
Use --index to re-index once the uploads are done.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUpload(commandContext(cmd), args, indexFlag)
		},
	}

	cmd.Flags().BoolVar(&indexFlag, "index", false, "Trigger indexing after the uploads")
	return cmd
}

func (a *app) runUpload(ctx context.Context, paths []string, index bool) error {
	cfg, logger, client, err := a.connect()
	if err != nil {
		return err
	}
	defer client.Close()

	fails := &failures{}
	ctrl := newController(ctx, client, cfg, logger, fails.record)
	defer ctrl.Close()

	stderr := a.deps.Stderr
	failed := 0

	for _, path := range paths {
		doc, err := models.LoadDocument(path)
		if err != nil {
			fmt.Fprintln(stderr, formatErrorMessage(err, "Skipping "+path))
			failed++
			continue
		}

		spin := newSpinner(stderr, "Uploading "+doc.Name)
		spin.start()
		ctrl.UploadDocument(doc)
		ctrl.Wait()

		if err := fails.take(controller.OpUpload); err != nil {
			spin.stopWithError()
			fmt.Fprintln(stderr, formatErrorMessage(err, "Upload of "+doc.Name+" failed"))
			failed++
			continue
		}
		spin.stopWithSuccess(fmt.Sprintf("Uploaded %s (%d KB)", doc.Name, doc.Size()/1024))
	}

	if index && failed < len(paths) {
		if err := indexWith(ctrl, fails, stderr); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(paths))
	}
	return nil
}
