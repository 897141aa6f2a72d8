package interfaces

import "context"

// TextExtractor turns a stored document image into raw text. The
// implementation is an external collaborator (Cloud Vision); callers
// treat it as opaque.
type TextExtractor interface {
	ExtractText(ctx context.Context, imageURI string) (string, error)
}
