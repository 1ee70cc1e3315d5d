package subtitle

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/oshokin/subdivx-grabber/internal/client/subdivx"
	"github.com/oshokin/subdivx-grabber/internal/config"
	"github.com/oshokin/subdivx-grabber/internal/constants"
	"github.com/oshokin/subdivx-grabber/internal/logger"
	"github.com/oshokin/subdivx-grabber/internal/matcher"
	"github.com/oshokin/subdivx-grabber/internal/utils"
)

// Service downloads subtitles for a single episode.
type Service interface {
	// Download searches subdivx for the query and unpacks the best result into outputDir.
	Download(ctx context.Context, query subdivx.SearchQuery, outputDir string) (*Outcome, error)
}

// ServiceImpl implements Service.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// client talks to subdivx.
	client subdivx.Client
	// fs is where temporary and output files are written.
	fs afero.Fs
	// tempDir holds the downloaded archive until it is unpacked.
	tempDir string
}

// NewService creates a service that keeps temporary files in the system temp folder.
func NewService(cfg *config.Config, client subdivx.Client, fs afero.Fs) Service {
	return NewServiceWithTempDir(cfg, client, fs, os.TempDir())
}

// NewServiceWithTempDir creates a service that keeps temporary files in tempDir.
func NewServiceWithTempDir(cfg *config.Config, client subdivx.Client, fs afero.Fs, tempDir string) Service {
	return &ServiceImpl{
		cfg:     cfg,
		client:  client,
		fs:      fs,
		tempDir: tempDir,
	}
}

// Download searches subdivx for the query and unpacks the best result into outputDir.
func (s *ServiceImpl) Download(
	ctx context.Context,
	query subdivx.SearchQuery,
	outputDir string,
) (*Outcome, error) {
	results, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search subtitles: %w", err)
	}

	selected, err := s.selectResult(ctx, query, results)
	if err != nil {
		return nil, err
	}

	destination, err := s.destinationPath(query, outputDir)
	if err != nil {
		return nil, err
	}

	outcome, err := s.fetchAndUnpack(ctx, selected.downloadURL, destination)
	if err != nil {
		return nil, err
	}

	outcome.Score = selected.score
	outcome.Description = selected.description

	return outcome, nil
}

// selection is the chosen search result with its resolved link.
type selection struct {
	description string
	downloadURL string
	score       int
}

// selectResult picks the best scoring result, the first one on ties, and resolves its link.
// Links of the other results are never looked at.
func (s *ServiceImpl) selectResult(
	ctx context.Context,
	query subdivx.SearchQuery,
	results []subdivx.SearchResult,
) (*selection, error) {
	if len(results) == 0 {
		return nil, &matcher.NoResultsError{
			SeriesName:    query.SeriesName,
			SeriesID:      query.SeriesID,
			SeriesQuality: query.SeriesQuality,
		}
	}

	descriptions := make([]string, len(results))
	for i, result := range results {
		descriptions[i] = result.Description
	}

	index, scores := matcher.Best(query.SearchMatch(), descriptions)
	logger.DebugKV(ctx, "Scored search results", "scores", scores, "selected", index)

	downloadURL, err := results[index].DownloadURL()
	if err != nil {
		return nil, err
	}

	if downloadURL == "" {
		return nil, fmt.Errorf("%w: result %d", matcher.ErrDownloadLinkNotFound, index)
	}

	logger.Debugf(ctx, "Selected subtitle: %s", downloadURL)

	return &selection{
		description: results[index].Description,
		downloadURL: downloadURL,
		score:       scores[index],
	}, nil
}

// destinationPath returns the extension-less path the subtitles are saved under.
func (s *ServiceImpl) destinationPath(query subdivx.SearchQuery, outputDir string) (string, error) {
	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path '%s': %w", outputDir, err)
	}

	if err = s.fs.MkdirAll(absOutputDir, constants.DefaultFolderPermissions); err != nil {
		return "", fmt.Errorf("failed to create output path '%s': %w", absOutputDir, err)
	}

	return filepath.Join(absOutputDir, utils.SanitizeFilename(query.SearchMatch())), nil
}
