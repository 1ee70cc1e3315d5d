package app

import (
	"context"
	"errors"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	subdivx_client "github.com/oshokin/subdivx-grabber/internal/client/subdivx"
	"github.com/oshokin/subdivx-grabber/internal/config"
	"github.com/oshokin/subdivx-grabber/internal/logger"
	"github.com/oshokin/subdivx-grabber/internal/matcher"
	subtitle_service "github.com/oshokin/subdivx-grabber/internal/service/subtitle"
)

// Request is a single subtitle download.
type Request struct {
	// OutputDir is where the subtitles are written.
	OutputDir string
	// Query identifies the episode.
	Query subdivx_client.SearchQuery
}

// ExecuteRootCommand is the entry point for the application.
// It sets up logging, creates the subdivx client and subtitle service,
// and downloads the subtitles described by request.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, request Request) error {
	log := NewLogger(cfg)

	defer func() {
		_ = log.Sync()
	}()

	ctx = logger.WithLogger(ctx, log)

	client := subdivx_client.NewClient(cfg)
	s := subtitle_service.NewService(cfg, client, afero.NewOsFs())

	return Run(ctx, s, request)
}

// Run downloads the subtitles with an already built service. Every failure is logged at error level.
func Run(ctx context.Context, s subtitle_service.Service, request Request) error {
	logger.DebugKV(ctx, "Looking for subtitles",
		"series_name", request.Query.SeriesName,
		"series_id", request.Query.SeriesID,
		"series_quality", request.Query.SeriesQuality,
		"path", request.OutputDir)

	outcome, err := s.Download(ctx, request.Query, request.OutputDir)
	if err != nil {
		var noResults *matcher.NoResultsError
		if errors.As(err, &noResults) {
			logger.Error(ctx, noResults.Error())
		} else {
			logger.Errorf(ctx, "Failed to download subtitles: %v", err)
		}

		return err
	}

	logger.Infof(ctx, "Downloaded %s %s archive (score %d): %s",
		humanize.Bytes(uint64(outcome.BytesDownloaded)), //nolint:gosec // Non-negative.
		outcome.Kind,
		outcome.Score,
		outcome.Description)

	return nil
}

// NewLogger builds the application logger: the rotating log file always,
// standard error unless quiet mode is on.
func NewLogger(cfg *config.Config) *zap.SugaredLogger {
	sinks := []zapcore.WriteSyncer{
		zapcore.AddSync(logger.NewRotatingFile(cfg.LogFile, cfg.ParsedLogMaxSizeMB, cfg.LogMaxBackups)),
	}

	if !cfg.Quiet {
		sinks = append(sinks, zapcore.Lock(os.Stderr))
	}

	return logger.New(cfg.ParsedLogLevel, sinks...)
}

// ExecuteConfigInitCommand writes the default configuration to filename.
func ExecuteConfigInitCommand(ctx context.Context, filename string, overwrite bool) error {
	if filename == "" {
		filename = config.DefaultConfigFilename
	}

	if err := config.SaveDefaultConfig(filename, overwrite); err != nil {
		return err
	}

	logger.Infof(ctx, "Default configuration written to '%s'", filename)

	return nil
}
