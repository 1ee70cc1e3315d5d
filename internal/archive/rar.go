package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/javi11/rarlist"
	"github.com/spf13/afero"

	"github.com/oshokin/subdivx-grabber/internal/constants"
	"github.com/oshokin/subdivx-grabber/internal/utils"
)

// SaveRar copies a RAR payload to destination with the .rar extension appended.
// It returns the written path.
func SaveRar(fsys afero.Fs, r io.Reader, destination string) (string, error) {
	target := utils.SetFileExtension(destination, constants.ExtensionRAR, false)

	if err := fsys.MkdirAll(filepath.Dir(target), constants.DefaultFolderPermissions); err != nil {
		return "", fmt.Errorf("failed to create folder for '%s': %w", target, err)
	}

	file, err := fsys.OpenFile(target, overwriteFileOptions, constants.DefaultFilePermissions)
	if err != nil {
		return "", fmt.Errorf("failed to create file '%s': %w", target, err)
	}

	_, err = io.Copy(file, r)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return "", fmt.Errorf("failed to write '%s': %w", target, err)
	}

	return target, nil
}

// ListRar returns the names of the files stored in a RAR archive.
func ListRar(fsys afero.Fs, path string) ([]string, error) {
	files, err := rarlist.ListFilesFS(rarFileSystem{fsys: fsys}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list RAR archive: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.Name)
	}

	return names, nil
}

// rarFileSystem exposes an afero filesystem to rarlist.
type rarFileSystem struct {
	fsys afero.Fs
}

// Open opens a volume for reading.
func (r rarFileSystem) Open(name string) (fs.File, error) {
	return r.fsys.Open(name)
}

// Stat returns volume information.
func (r rarFileSystem) Stat(path string) (os.FileInfo, error) {
	return r.fsys.Stat(path)
}
