package subtitle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"

	"github.com/oshokin/subdivx-grabber/internal/archive"
	"github.com/oshokin/subdivx-grabber/internal/constants"
	"github.com/oshokin/subdivx-grabber/internal/logger"
)

const (
	// tempFilePrefix starts the name of every downloaded archive.
	tempFilePrefix = "subdivx_"

	// overwriteFileOptions truncates a leftover temporary file with the same name.
	overwriteFileOptions = os.O_CREATE | os.O_TRUNC | os.O_RDWR
)

// fetchAndUnpack downloads the archive at downloadURL into a temporary file and unpacks it
// according to its format. The temporary file is always removed.
func (s *ServiceImpl) fetchAndUnpack(ctx context.Context, downloadURL, destination string) (*Outcome, error) {
	if err := s.fs.MkdirAll(s.tempDir, constants.DefaultFolderPermissions); err != nil {
		return nil, fmt.Errorf("failed to create temporary folder: %w", err)
	}

	tempPath := filepath.Join(s.tempDir, tempFilePrefix+uuid.New().String()+constants.ExtensionPart)

	tempFile, err := s.fs.OpenFile(tempPath, overwriteFileOptions, constants.DefaultFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	defer func() {
		closeErr := tempFile.Close()

		if removeErr := s.fs.Remove(tempPath); removeErr != nil {
			logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v (close error: %v)",
				tempPath, removeErr, closeErr)
		}
	}()

	bytesDownloaded, err := s.downloadTo(ctx, downloadURL, tempFile)
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "Downloaded %s", humanize.Bytes(uint64(bytesDownloaded))) //nolint:gosec // Non-negative.

	return s.unpack(ctx, tempFile, bytesDownloaded, destination)
}

// downloadTo copies the body at downloadURL into w and returns the number of bytes written.
func (s *ServiceImpl) downloadTo(ctx context.Context, downloadURL string, w io.Writer) (int64, error) {
	result, err := s.client.Download(ctx, downloadURL)
	if err != nil {
		return 0, fmt.Errorf("failed to download subtitle: %w", err)
	}

	defer result.Body.Close() //nolint:errcheck // Error on close is not critical here.

	// The progress bar shares the terminal with console logging.
	writer := w
	if !s.cfg.Quiet && logger.IsInfoLevel(ctx) {
		bar := progressbar.DefaultBytes(
			result.TotalBytes,
			"Downloading",
		)

		writer = io.MultiWriter(w, bar)
	}

	written, err := io.Copy(writer, result.Body)
	if err != nil {
		return written, fmt.Errorf("failed to write temporary file: %w", err)
	}

	return written, nil
}

// unpack classifies the downloaded archive and writes its contents next to destination.
func (s *ServiceImpl) unpack(ctx context.Context, file afero.File, size int64, destination string) (*Outcome, error) {
	header, err := readHeader(file)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Kind:            archive.ClassifyArchive(file, size, header),
		BytesDownloaded: size,
	}

	switch outcome.Kind {
	case archive.KindZip:
		logger.Debug(ctx, "Unpacking zipped subtitle")

		outcome.Files, err = archive.ExtractZip(s.fs, file, size, filepath.Dir(destination), s.cfg.SubtitleExtensions)
		if err != nil {
			return nil, err
		}

		if len(outcome.Files) == 0 {
			logger.Warn(ctx, "Zip archive has no matching subtitle entries")
		}
	case archive.KindRar:
		logger.Debug(ctx, "Saving rared subtitle")

		if _, err = file.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind temporary file: %w", err)
		}

		var rarPath string

		rarPath, err = archive.SaveRar(s.fs, file, destination)
		if err != nil {
			return nil, err
		}

		outcome.Files = []string{rarPath}
		s.logRarEntries(ctx, rarPath)
	default:
		return nil, fmt.Errorf("%w: %s", archive.ErrUnknownArchiveFormat, archive.DetectMIME(header))
	}

	for _, path := range outcome.Files {
		logger.Infof(ctx, "Saved '%s'", path)
	}

	return outcome, nil
}

// logRarEntries lists the files stored in a saved RAR archive. Failures only warn.
func (s *ServiceImpl) logRarEntries(ctx context.Context, rarPath string) {
	names, err := archive.ListRar(s.fs, rarPath)
	if err != nil {
		logger.Warnf(ctx, "Failed to list '%s': %v", rarPath, err)

		return
	}

	for _, name := range names {
		logger.Debugf(ctx, "RAR entry: %s", name)
	}
}

// readHeader reads up to archive.HeaderSize leading bytes of file.
func readHeader(file afero.File) ([]byte, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind temporary file: %w", err)
	}

	header := make([]byte, archive.HeaderSize)

	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read temporary file: %w", err)
	}

	return header[:n], nil
}
