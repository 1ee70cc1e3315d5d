package subtitle

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/subdivx-grabber/internal/archive"
	"github.com/oshokin/subdivx-grabber/internal/client/subdivx"
	"github.com/oshokin/subdivx-grabber/internal/config"
	"github.com/oshokin/subdivx-grabber/internal/matcher"
)

const (
	bestLink  = "http://www.subdivx.com/bajar.php?id=2&u=8"
	otherLink = "http://www.subdivx.com/bajar.php?id=1&u=8"
)

// testResults holds a weak match first and the exact release second.
//
//nolint:gochecknoglobals // Read-only test fixture.
var testResults = []subdivx.SearchResult{
	{Description: "Other Series 2x05 1080p", Link: otherLink},
	{Description: "Show.Name.1x01.720p.WEB", Link: bestLink},
}

// TestDownload_Zip tests that the best result is downloaded and its subtitles extracted.
func TestDownload_Zip(t *testing.T) {
	t.Parallel()

	setup := newTestServiceSetup(t)

	setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return(testResults, nil)
	setup.expectDownload(bestLink, buildZip(t, map[string]string{
		"Show.Name.1x01.srt":               "subtitle",
		"__MACOSX/._Show.Name.1x01.srt":    "resource fork",
		"Show.Name.1x01.720p.WEB.txt":      "release notes",
		"extras/Show.Name.1x01.forced.srt": "forced",
	}))

	outcome, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
	require.NoError(t, err)

	assert.Equal(t, archive.KindZip, outcome.Kind)
	assert.Equal(t, matcher.MaxScore, outcome.Score)
	assert.Equal(t, "Show.Name.1x01.720p.WEB", outcome.Description)
	assert.Positive(t, outcome.BytesDownloaded)
	assert.ElementsMatch(t, []string{
		filepath.Join(testOutputDir, "Show.Name.1x01.srt"),
		filepath.Join(testOutputDir, "extras", "Show.Name.1x01.forced.srt"),
	}, outcome.Files)

	data, err := afero.ReadFile(setup.fs, filepath.Join(testOutputDir, "Show.Name.1x01.srt"))
	require.NoError(t, err)
	assert.Equal(t, "subtitle", string(data))

	for _, absent := range []string{"__MACOSX", "Show.Name.1x01.720p.WEB.txt"} {
		exists, err := afero.Exists(setup.fs, filepath.Join(testOutputDir, absent))
		require.NoError(t, err)
		assert.False(t, exists, absent)
	}

	setup.requireNoTempFiles(t)
}

// TestDownload_ZipAllEntries tests that an empty extension list extracts every non-metadata entry.
func TestDownload_ZipAllEntries(t *testing.T) {
	t.Parallel()

	setup := newTestServiceSetup(t, func(cfg *config.Config) {
		cfg.SubtitleExtensions = nil
	})

	setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return(testResults, nil)
	setup.expectDownload(bestLink, buildZip(t, map[string]string{
		"Show.Name.1x01.srt":            "subtitle",
		"Show.Name.1x01.ass":            "styled subtitle",
		"__MACOSX/._Show.Name.1x01.srt": "resource fork",
	}))

	outcome, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(testOutputDir, "Show.Name.1x01.srt"),
		filepath.Join(testOutputDir, "Show.Name.1x01.ass"),
	}, outcome.Files)
}

// TestDownload_ZipWithLeadingData tests that self-extracting zip archives are unpacked.
func TestDownload_ZipWithLeadingData(t *testing.T) {
	t.Parallel()

	setup := newTestServiceSetup(t)
	payload := append(bytes.Repeat([]byte("MZ"), 100), buildZip(t, map[string]string{
		"Show.Name.1x01.srt": "subtitle",
	})...)

	setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return(testResults, nil)
	setup.expectDownload(bestLink, payload)

	outcome, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
	require.NoError(t, err)
	assert.Equal(t, archive.KindZip, outcome.Kind)

	data, err := afero.ReadFile(setup.fs, filepath.Join(testOutputDir, "Show.Name.1x01.srt"))
	require.NoError(t, err)
	assert.Equal(t, "subtitle", string(data))
}

// TestDownload_Rar tests that RAR payloads are saved under the episode name.
func TestDownload_Rar(t *testing.T) {
	t.Parallel()

	setup := newTestServiceSetup(t)
	payload := []byte("Rar!\x1a\x07\x00rest of the archive")

	setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return(testResults, nil)
	setup.expectDownload(bestLink, payload)

	outcome, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
	require.NoError(t, err)

	expectedPath := filepath.Join(testOutputDir, "Show Name 1x01 720p.rar")

	assert.Equal(t, archive.KindRar, outcome.Kind)
	assert.Equal(t, []string{expectedPath}, outcome.Files)
	assert.Equal(t, int64(len(payload)), outcome.BytesDownloaded)

	data, err := afero.ReadFile(setup.fs, expectedPath)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	setup.requireNoTempFiles(t)
}

// TestDownload_UnknownFormat tests that payloads that are neither zip nor RAR produce no files.
func TestDownload_UnknownFormat(t *testing.T) {
	t.Parallel()

	setup := newTestServiceSetup(t)

	setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return(testResults, nil)
	setup.expectDownload(bestLink, []byte("<html><body>Download limit reached</body></html>"))

	outcome, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
	require.ErrorIs(t, err, archive.ErrUnknownArchiveFormat)
	assert.Nil(t, outcome)

	entries, err := afero.ReadDir(setup.fs, testOutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	setup.requireNoTempFiles(t)
}

// TestDownload_NoResults tests that an empty search fails before anything is downloaded.
func TestDownload_NoResults(t *testing.T) {
	t.Parallel()

	setup := newTestServiceSetup(t)

	setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return(nil, nil)

	outcome, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
	require.ErrorIs(t, err, matcher.ErrNoResults)
	assert.Nil(t, outcome)

	var noResults *matcher.NoResultsError
	require.ErrorAs(t, err, &noResults)
	assert.Equal(t, "No suitable subtitles were found for: Show Name 1x01 720p", noResults.Error())

	exists, err := afero.DirExists(setup.fs, testOutputDir)
	require.NoError(t, err)
	assert.False(t, exists, "output folder should not be created")
}

// TestDownload_MissingLink tests that a selected result without a link is reported.
func TestDownload_MissingLink(t *testing.T) {
	t.Parallel()

	setup := newTestServiceSetup(t)

	setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return([]subdivx.SearchResult{
		{Description: "Other Series 2x05 1080p", Link: otherLink},
		{Description: "Show Name 1x01 720p"},
	}, nil)

	_, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
	require.ErrorIs(t, err, matcher.ErrDownloadLinkNotFound)
}

// TestDownload_BrokenLinkOfUnselectedResult tests that only the selected result's link is resolved.
func TestDownload_BrokenLinkOfUnselectedResult(t *testing.T) {
	t.Parallel()

	setup := newTestServiceSetup(t)

	setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return([]subdivx.SearchResult{
		{Description: "Other Series 2x05 1080p", Link: "http://[bad"},
		{Description: "Show.Name.1x01.720p.WEB", Link: bestLink},
	}, nil)
	setup.expectDownload(bestLink, []byte("Rar!\x1a\x07\x00"))

	outcome, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
	require.NoError(t, err)
	assert.Equal(t, matcher.MaxScore, outcome.Score)
}

// TestDownload_BrokenLinkOfSelectedResult tests that an unparsable selected link is reported.
func TestDownload_BrokenLinkOfSelectedResult(t *testing.T) {
	t.Parallel()

	setup := newTestServiceSetup(t)

	setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return([]subdivx.SearchResult{
		{Description: "Show.Name.1x01.720p.WEB", Link: "http://[bad"},
	}, nil)

	_, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
	require.ErrorIs(t, err, subdivx.ErrInvalidDownloadURL)
}

// TestDownload_TiesPickFirst tests that equal scores select the earliest result.
func TestDownload_TiesPickFirst(t *testing.T) {
	t.Parallel()

	setup := newTestServiceSetup(t)

	setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return([]subdivx.SearchResult{
		{Description: "Show Name 1x01 720p", Link: otherLink},
		{Description: "Show Name 1x01 720p", Link: bestLink},
	}, nil)
	setup.expectDownload(otherLink, []byte("Rar!\x1a\x07\x00"))

	outcome, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
	require.NoError(t, err)
	assert.Equal(t, matcher.MaxScore, outcome.Score)
}

// TestDownload_ClientErrors tests that search and download failures are propagated.
func TestDownload_ClientErrors(t *testing.T) {
	t.Parallel()

	errNetwork := errors.New("connection reset by peer")

	t.Run("search fails", func(t *testing.T) {
		t.Parallel()

		setup := newTestServiceSetup(t)

		setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return(nil, errNetwork)

		_, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
		require.ErrorIs(t, err, errNetwork)
	})

	t.Run("download fails", func(t *testing.T) {
		t.Parallel()

		setup := newTestServiceSetup(t)

		setup.mockClient.EXPECT().Search(gomock.Any(), testQuery).Return(testResults, nil)
		setup.mockClient.EXPECT().
			Download(gomock.Any(), bestLink).
			Return(nil, subdivx.ErrUnexpectedHTTPStatus)

		_, err := setup.service.Download(setup.ctx, testQuery, testOutputDir)
		require.ErrorIs(t, err, subdivx.ErrUnexpectedHTTPStatus)

		setup.requireNoTempFiles(t)
	})
}
