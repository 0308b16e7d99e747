package ports

import (
	"context"
	"io"
)

// PhotoStorage keeps trip photos and returns the URL to store on the evidence.
type PhotoStorage interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error)
}
