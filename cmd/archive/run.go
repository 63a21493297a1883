package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zoobzio/stagez"
	"github.com/zoobzio/stagez/archive"
)

// errFailed is returned when at least one URL could not be archived.
var errFailed = errors.New("some pages could not be archived")

func runArchive(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat)
	if err != nil {
		return err
	}
	// Derived paths are logged at debug.
	if s.Archive.Verbose && logger.GetLevel() > zerolog.DebugLevel {
		logger = logger.Level(zerolog.DebugLevel)
	}

	client := &http.Client{Timeout: s.Archive.Timeout}

	failed := 0
	for _, raw := range args {
		runLogger := logger.With().Str("run", uuid.NewString()).Logger()
		if err := archiveOne(cmd.Context(), raw, s.Archive, client, runLogger); err != nil {
			failed++
			logFailure(runLogger, raw, err)
			continue
		}
		runLogger.Info().Str("url", raw).Msg("archived")
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d failed", errFailed, failed, len(args))
	}
	return nil
}

func archiveOne(ctx context.Context, raw string, cfg archive.Config, client *http.Client, logger zerolog.Logger) error {
	target, err := url.Parse(raw)
	if err != nil {
		return stagez.NewOtherError("parse", err)
	}

	pipeline, err := archive.Build(*target, cfg, client, logger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	_, err = pipeline.Process(ctx, stagez.Unit{})
	return err
}

func logFailure(logger zerolog.Logger, raw string, err error) {
	event := logger.Error().Str("url", raw)

	var stageErr *stagez.Error
	if errors.As(err, &stageErr) {
		event = event.
			Str("stage", stageErr.Stage).
			Stringer("kind", stageErr.Kind).
			Bool("timeout", stageErr.IsTimeout())
		if stageErr.Err != nil {
			event = event.AnErr("cause", stageErr.Err)
		}
	} else {
		event = event.Err(err)
	}
	event.Msg("archive failed")
}
