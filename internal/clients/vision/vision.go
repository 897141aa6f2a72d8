// Package vision wraps the Cloud Vision text-detection API used for
// advisory OCR on uploaded onboarding documents.
package vision

import (
	"context"
	"errors"

	vision "cloud.google.com/go/vision/apiv1"
)

type Client struct {
	annotator *vision.ImageAnnotatorClient
}

// New builds a client using application-default credentials.
func New(ctx context.Context) (*Client, error) {
	annotator, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Client{annotator: annotator}, nil
}

func (c *Client) Close() error {
	return c.annotator.Close()
}

// ExtractText runs text detection against an already-stored image URL
// and returns the full detected text block.
func (c *Client) ExtractText(ctx context.Context, imageURI string) (string, error) {
	if imageURI == "" {
		return "", errors.New("image uri is required")
	}

	img := vision.NewImageFromURI(imageURI)
	annotations, err := c.annotator.DetectTexts(ctx, img, nil, 1)
	if err != nil {
		return "", err
	}
	if len(annotations) == 0 {
		return "", nil
	}
	// the first annotation is the whole detected block
	return annotations[0].Description, nil
}
