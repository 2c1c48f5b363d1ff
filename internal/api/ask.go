package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/models"
)

type askRequest struct {
	Question string `json:"question"`
}

// Ask sends a question and returns the server's answer
func (c *Client) Ask(ctx context.Context, question string) (*models.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apierrors.ErrEmptyQuestion
	}

	payload, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := c.newRequest(ctx, fhttp.MethodPost, models.EndpointAsk, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, "ask", models.EndpointAsk)
	if err != nil {
		return nil, err
	}

	return parseAnswer(body)
}

// parseAnswer extracts the answer text and its sources.
// The answer field must be present and be a string.
func parseAnswer(body []byte) (*models.Answer, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	root := gjson.ParseBytes(body)
	answer := root.Get(PathAnswer)
	if !answer.Exists() {
		return nil, apierrors.NewParseError("missing answer", PathAnswer)
	}
	if answer.Type != gjson.String {
		return nil, apierrors.NewParseError("answer is not a string", PathAnswer)
	}

	return &models.Answer{
		Text:    answer.String(),
		Sources: parseSources(root.Get(PathSources)),
	}, nil
}

// parseSources is lenient: anything that is not an array of objects yields no sources
func parseSources(value gjson.Result) []models.Source {
	if !value.IsArray() {
		return nil
	}

	var sources []models.Source
	value.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		sources = append(sources, models.Source{
			Title: item.Get(PathSourceTitle).String(),
			Chunk: item.Get(PathSourceChunk).String(),
		})
		return true
	})
	return sources
}
