package tag

import (
	"context"
	"fmt"
	"os"

	"github.com/contre95/beetwatch/src/features/importing"
	"github.com/dhowden/tag"
)

// TagReader reads track tags with the dhowden/tag library.
type TagReader struct{}

// NewTagReader creates a new TagReader
func NewTagReader() importing.TagReader {
	return &TagReader{}
}

// ReadTrackInfo reads artist, album and title from a music file.
func (r *TagReader) ReadTrackInfo(ctx context.Context, filePath string) (importing.TrackInfo, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return importing.TrackInfo{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	tags, err := tag.ReadFrom(file)
	if err != nil {
		return importing.TrackInfo{}, fmt.Errorf("failed to read tags: %w", err)
	}

	artist := tags.Artist()
	if artist == "" {
		artist = tags.AlbumArtist()
	}
	return importing.TrackInfo{
		Artist: artist,
		Album:  tags.Album(),
		Title:  tags.Title(),
	}, nil
}
