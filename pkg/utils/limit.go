package utils

import (
	"errors"
	"io"
)

// ReadAllLimit reads r to completion but refuses anything larger than
// max bytes. Upload handlers use it so a document is bounded before it
// is normalized or pushed to storage.
func ReadAllLimit(r io.Reader, max int64) ([]byte, error) {
	lr := io.LimitReader(r, max+1)
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, errors.New("file too large")
	}
	return b, nil
}
