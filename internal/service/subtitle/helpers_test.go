package subtitle

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/oshokin/subdivx-grabber/internal/client/subdivx"
	mock_subdivx "github.com/oshokin/subdivx-grabber/internal/client/subdivx/mocks"
	"github.com/oshokin/subdivx-grabber/internal/config"
	"github.com/oshokin/subdivx-grabber/internal/logger"
)

const (
	testOutputDir = "/downloads"
	testTempDir   = "/tmp/subdivx"
)

// testQuery is the episode every test looks for.
//
//nolint:gochecknoglobals // Read-only test fixture.
var testQuery = subdivx.SearchQuery{
	SeriesName:    "Show Name",
	SeriesID:      "1x01",
	SeriesQuality: "720p",
}

// testServiceSetup encapsulates common test dependencies.
type testServiceSetup struct {
	ctx        context.Context
	mockClient *mock_subdivx.MockClient
	fs         afero.Fs
	config     *config.Config
	service    Service
}

// newTestServiceSetup creates a service over an in-memory filesystem with optional config overrides.
func newTestServiceSetup(t *testing.T, configOverrides ...func(*config.Config)) *testServiceSetup {
	t.Helper()

	cfg := config.Default()
	cfg.Quiet = true

	for _, override := range configOverrides {
		override(cfg)
	}

	var (
		ctrl       = gomock.NewController(t)
		mockClient = mock_subdivx.NewMockClient(ctrl)
		fs         = afero.NewMemMapFs()
	)

	return &testServiceSetup{
		ctx:        logger.WithLogger(t.Context(), zaptest.NewLogger(t).Sugar()),
		mockClient: mockClient,
		fs:         fs,
		config:     cfg,
		service:    NewServiceWithTempDir(cfg, mockClient, fs, testTempDir),
	}
}

// expectDownload makes the client serve payload for downloadURL.
func (s *testServiceSetup) expectDownload(downloadURL string, payload []byte) {
	s.mockClient.EXPECT().
		Download(gomock.Any(), downloadURL).
		Return(&subdivx.DownloadResult{
			Body:       io.NopCloser(bytes.NewReader(payload)),
			TotalBytes: int64(len(payload)),
		}, nil)
}

// requireNoTempFiles fails if a downloaded archive was left behind.
func (s *testServiceSetup) requireNoTempFiles(t *testing.T) {
	t.Helper()

	entries, err := afero.ReadDir(s.fs, testTempDir)
	require.NoError(t, err)
	require.Empty(t, entries, "temporary files should be removed")
}

// buildZip returns a zip archive with the given name to content entries.
func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var (
		buf    bytes.Buffer
		writer = zip.NewWriter(&buf)
	)

	for name, content := range entries {
		w, err := writer.Create(name)
		require.NoError(t, err)

		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return buf.Bytes()
}
