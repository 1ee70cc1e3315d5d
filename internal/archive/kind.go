package archive

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the archive format of a payload.
type Kind int

const (
	// KindUnknown is any payload that is neither zip nor RAR.
	KindUnknown Kind = iota
	// KindZip is a zip archive.
	KindZip
	// KindRar is a RAR archive.
	KindRar
)

// HeaderSize is how many leading bytes Classify needs to see.
const HeaderSize = 3072

const zipMIME = "application/zip"

// rarSignature is the marker block every RAR 1.5-4.x archive starts with.
//
//nolint:gochecknoglobals // Read-only magic bytes.
var rarSignature = []byte("Rar!\x1a\x07\x00")

// String returns the lowercase format name.
func (k Kind) String() string {
	switch k {
	case KindZip:
		return "zip"
	case KindRar:
		return "rar"
	default:
		return "unknown"
	}
}

// Classify returns the archive kind of a payload from its leading bytes.
// Zip wins over RAR, matching the order the checks are made in.
func Classify(header []byte) Kind {
	switch {
	case IsZip(header):
		return KindZip
	case IsRar(header):
		return KindRar
	default:
		return KindUnknown
	}
}

// ClassifyArchive is Classify for a complete payload. Zip archives with data in front
// of them, such as self-extracting ones, are found through their central directory.
func ClassifyArchive(r io.ReaderAt, size int64, header []byte) Kind {
	kind := Classify(header)
	if kind != KindZip && hasZipDirectory(r, size) {
		return KindZip
	}

	return kind
}

// hasZipDirectory reports whether r ends with a readable zip central directory.
func hasZipDirectory(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}

	_, err := zip.NewReader(r, size)

	return err == nil
}

// IsRar reports whether buf starts with the RAR signature.
func IsRar(buf []byte) bool {
	return bytes.HasPrefix(buf, rarSignature)
}

// IsZip reports whether header belongs to a zip archive or a zip-based format.
func IsZip(header []byte) bool {
	for mtype := mimetype.Detect(header); mtype != nil; mtype = mtype.Parent() {
		if mtype.Is(zipMIME) {
			return true
		}
	}

	return false
}

// DetectMIME returns the MIME type detected for header, for diagnostics.
func DetectMIME(header []byte) string {
	return mimetype.Detect(header).String()
}
