/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package imggen renders card art through Google's Imagen models.
package imggen

import (
	"context"
	"errors"

	"github.com/mikeb26/midway/internal/types"
	"google.golang.org/genai"
)

const DefaultModel = "imagen-3.0-generate-002"

var ErrNoImage = errors.New("model returned no image")

// Client generates still images for printable cards.
type Client struct {
	client *genai.Client
	model  string
}

var _ types.ImageClient = (*Client)(nil)

// New builds an image client. model may be empty to use DefaultModel.
func New(ctx context.Context, apiKey string, model string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client: c,
		model:  model,
	}, nil
}

// GenerateImage renders one image for prompt and returns the raw bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte,
	error) {

	resp, err := c.client.Models.GenerateImages(ctx, c.model, prompt,
		&genai.GenerateImagesConfig{
			NumberOfImages: 1,
		})
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.GeneratedImages) == 0 ||
		resp.GeneratedImages[0].Image == nil {
		return nil, ErrNoImage
	}

	return resp.GeneratedImages[0].Image.ImageBytes, nil
}
