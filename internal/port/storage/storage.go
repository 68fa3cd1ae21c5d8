package storage

import "context"

// Uploader stores a file in object storage and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}
