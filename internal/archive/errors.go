package archive

import "errors"

var (
	// ErrUnknownArchiveFormat indicates that a payload is neither a zip nor a RAR archive.
	ErrUnknownArchiveFormat = errors.New("unknown archive format")
	// ErrIllegalEntryPath indicates a zip entry that would be written outside the target directory.
	ErrIllegalEntryPath = errors.New("illegal archive entry path")
)
