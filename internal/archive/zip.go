package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/oshokin/subdivx-grabber/internal/constants"
)

// overwriteFileOptions truncates files left by a previous run.
const overwriteFileOptions = os.O_CREATE | os.O_TRUNC | os.O_WRONLY

// ShouldExtract reports whether a zip entry is worth unpacking.
// Entries under macOS metadata folders never are; otherwise the name must contain one of
// extensions, compared case-insensitively. No extensions means every other entry qualifies.
func ShouldExtract(name string, extensions []string) bool {
	if strings.Contains(name, constants.MacOSMetadataFolder) {
		return false
	}

	if len(extensions) == 0 {
		return true
	}

	lowerName := strings.ToLower(name)

	for _, extension := range extensions {
		if strings.Contains(lowerName, strings.ToLower(extension)) {
			return true
		}
	}

	return false
}

// ExtractZip unpacks the entries of a zip archive accepted by ShouldExtract into destDir,
// keeping their relative paths. It returns the paths of the written files.
func ExtractZip(fsys afero.Fs, r io.ReaderAt, size int64, destDir string, extensions []string) ([]string, error) {
	reader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	var extracted []string

	for _, entry := range reader.File {
		if !ShouldExtract(entry.Name, extensions) {
			continue
		}

		target, err := entryPath(destDir, entry.Name)
		if err != nil {
			return extracted, err
		}

		if entry.FileInfo().IsDir() {
			if err = fsys.MkdirAll(target, constants.DefaultFolderPermissions); err != nil {
				return extracted, fmt.Errorf("failed to create folder '%s': %w", target, err)
			}

			continue
		}

		if err = extractEntry(fsys, entry, target); err != nil {
			return extracted, err
		}

		extracted = append(extracted, target)
	}

	return extracted, nil
}

// entryPath joins an entry name to destDir and rejects names escaping it.
func entryPath(destDir, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrIllegalEntryPath, name)
	}

	target := filepath.Join(destDir, filepath.FromSlash(name))

	relative, err := filepath.Rel(destDir, target)
	if err != nil || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrIllegalEntryPath, name)
	}

	return target, nil
}

func extractEntry(fsys afero.Fs, entry *zip.File, target string) error {
	if err := fsys.MkdirAll(filepath.Dir(target), constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create folder for '%s': %w", target, err)
	}

	source, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open zip entry '%s': %w", entry.Name, err)
	}

	defer source.Close() //nolint:errcheck // Read-only entry, error on close is not critical.

	file, err := fsys.OpenFile(target, overwriteFileOptions, constants.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", target, err)
	}

	_, err = io.Copy(file, source) //nolint:gosec // Entries are subtitle-sized, sizes come from the archive itself.
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("failed to extract '%s': %w", entry.Name, err)
	}

	return nil
}
