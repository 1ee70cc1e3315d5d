package subtitle

import "github.com/oshokin/subdivx-grabber/internal/archive"

// Outcome describes a finished download.
type Outcome struct {
	// Kind is the detected archive format.
	Kind archive.Kind
	// Files lists the written paths: extracted entries for zip, the saved archive for RAR.
	Files []string
	// BytesDownloaded is the size of the downloaded archive.
	BytesDownloaded int64
	// Score is the match score of the selected result.
	Score int
	// Description is the text of the selected result.
	Description string
}
