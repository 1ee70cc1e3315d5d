package archive

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// zipEntry is a file or folder to put into a test archive.
type zipEntry struct {
	name    string
	content string
}

// buildZip returns a zip archive holding entries in order.
func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()

	var (
		buf    bytes.Buffer
		writer = zip.NewWriter(&buf)
	)

	for _, entry := range entries {
		w, err := writer.Create(entry.name)
		require.NoError(t, err)

		if entry.content != "" {
			_, err = w.Write([]byte(entry.content))
			require.NoError(t, err)
		}
	}

	require.NoError(t, writer.Close())

	return buf.Bytes()
}
