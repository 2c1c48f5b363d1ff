package api

import (
	"context"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/models"
)

// Health checks that the server is reachable and reports itself healthy
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, fhttp.MethodGet, models.EndpointHealth, nil)
	if err != nil {
		return err
	}

	_, err = c.do(req, "health check", models.EndpointHealth)
	return err
}

// History returns the question/answer pairs the server has recorded, oldest first
func (c *Client) History(ctx context.Context) ([]models.QAHistoryItem, error) {
	req, err := c.newRequest(ctx, fhttp.MethodGet, models.EndpointHistory, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, "history", models.EndpointHistory)
	if err != nil {
		return nil, err
	}

	return parseHistory(body)
}

func parseHistory(body []byte) ([]models.QAHistoryItem, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, apierrors.NewParseError("history is not a list", "")
	}

	items := make([]models.QAHistoryItem, 0, len(root.Array()))
	root.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		items = append(items, models.QAHistoryItem{
			Question: item.Get(PathHistoryQuestion).String(),
			Answer:   item.Get(PathHistoryAnswer).String(),
			Sources:  parseSources(item.Get(PathHistorySources)),
		})
		return true
	})
	return items, nil
}
