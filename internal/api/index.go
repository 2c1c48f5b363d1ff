package api

import (
	"context"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/diogo/ragchat/internal/models"
)

// Index asks the server to rebuild its search index from the uploaded documents.
// The request carries no body and any 2xx reply is success.
func (c *Client) Index(ctx context.Context) error {
	req, err := c.newRequest(ctx, fhttp.MethodPost, models.EndpointIndex, nil)
	if err != nil {
		return err
	}

	_, err = c.do(req, "index", models.EndpointIndex)
	return err
}
