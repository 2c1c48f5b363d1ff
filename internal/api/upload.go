package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/models"
)

// uploadFieldName is the multipart field the server reads the document from
const uploadFieldName = "file"

// Upload sends a document to the server's ingestion endpoint.
// Any 2xx reply is success; the body is parsed when it carries status fields.
func (c *Client) Upload(ctx context.Context, doc *models.Document) (*models.UploadResult, error) {
	if doc == nil {
		return nil, apierrors.NewUploadError("", fmt.Errorf("no document"))
	}

	body, contentType, err := buildMultipart(doc)
	if err != nil {
		return nil, apierrors.NewUploadError(doc.Name, err)
	}

	req, err := c.newRequest(ctx, fhttp.MethodPost, models.EndpointUpload, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	respBody, err := c.do(req, "upload", models.EndpointUpload)
	if err != nil {
		return nil, err
	}

	result := &models.UploadResult{FileName: doc.Name}
	if gjson.ValidBytes(respBody) {
		root := gjson.ParseBytes(respBody)
		result.Status = root.Get(PathUploadStatus).String()
		if name := root.Get(PathUploadFileName).String(); name != "" {
			result.FileName = name
		}
	}

	c.logger.Debug().
		Str("file", result.FileName).
		Int64("size", doc.Size()).
		Msg("document uploaded")

	return result, nil
}

func buildMultipart(doc *models.Document) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	mimeType := doc.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadFieldName, escapeQuotes(doc.Name)))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return &body, writer.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
