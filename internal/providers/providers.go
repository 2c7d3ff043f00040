package providers

import (
	"context"
)

// DescribePrompt asks a vision model for catalog copy
const DescribePrompt = `You are writing catalog copy for an online gallery of original paintings.
Describe the painting in the image in two or three sentences: subject, palette and mood.
Do not invent a title, price or artist name. Answer with the description only.`

// Image is an encoded painting handed to a Describer
type Image struct {
	Data []byte
	// Format is the image subtype, e.g. "jpeg" or "png"
	Format string
}

// Describer drafts a description for a painting image
type Describer interface {
	Describe(ctx context.Context, img Image) (string, error)
}
