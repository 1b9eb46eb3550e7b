package importing

import (
	"context"
)

// TrackInfo holds the tags logged alongside a singleton import.
type TrackInfo struct {
	Artist string
	Album  string
	Title  string
}

// TagReader is the interface for reading metadata from a music file.
type TagReader interface {
	ReadTrackInfo(ctx context.Context, filePath string) (TrackInfo, error)
}
