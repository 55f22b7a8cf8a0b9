package core

import (
	"context"

	"github.com/arthur-debert/cfgtool/pkg/changes"
	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/logging"
	"github.com/arthur-debert/cfgtool/pkg/types"
)

// Track starts tracking a home file with the default commit message.
// Already-tracked files succeed with AlreadyTracked set and nothing
// committed; use Update to commit their changes.
func (o *Orchestrator) Track(ctx context.Context, path string) (*types.TrackResult, error) {
	return o.TrackWithMessage(ctx, path, "")
}

// TrackWithMessage is Track with an explicit commit message
func (o *Orchestrator) TrackWithMessage(ctx context.Context, path, message string) (*types.TrackResult, error) {
	logger := o.logger.With().Str("path", path).Logger()
	done := logging.LogOperationStart(logger, "track")
	defer done()

	if o.store.IsTracked(path) {
		result := &types.TrackResult{AlreadyTracked: true}
		if canonical, err := o.mapper.Canonicalize(path); err == nil {
			result.HomePath = canonical
			result.StorePath, _ = o.mapper.StoreRelative(canonical)
		}
		logger.Info().Msg("File is already tracked")
		return result, nil
	}

	return o.store.TrackFile(ctx, path, message)
}

// Update detects drifted files and, for each one the Prompter accepts,
// commits the home copy with the message it supplies
func (o *Orchestrator) Update(ctx context.Context) (*types.UpdateResult, error) {
	if err := o.requirePrompter("update"); err != nil {
		return nil, err
	}

	done := logging.LogOperationStart(o.logger, "update")
	defer done()

	detected, err := o.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}

	result := &types.UpdateResult{
		Changes:   []string{},
		Committed: []types.TrackResult{},
		Declined:  []string{},
		Skipped:   skippedFiles(detected),
	}

	for _, rec := range detected.Records {
		result.Changes = append(result.Changes, rec.Path)

		candidate, err := o.candidate(ctx, rec)
		if err != nil {
			return nil, err
		}

		accept, err := o.prompter.ConfirmUpdate(ctx, candidate)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPrompt, "failed to confirm update of %s", rec.Path)
		}
		if !accept {
			o.logger.Debug().Str("path", rec.Path).Msg("Update declined")
			result.Declined = append(result.Declined, rec.Path)
			continue
		}

		message, err := o.prompter.CommitMessage(ctx, candidate)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPrompt, "failed to read commit message for %s", rec.Path)
		}

		tracked, err := o.store.TrackFile(ctx, candidate.HomePath, message)
		if err != nil {
			return nil, err
		}
		result.Committed = append(result.Committed, *tracked)
	}

	o.logger.Info().
		Int("changes", len(result.Changes)).
		Int("committed", len(result.Committed)).
		Int("declined", len(result.Declined)).
		Int("skipped", len(result.Skipped)).
		Msg("Update complete")

	return result, nil
}

func (o *Orchestrator) candidate(ctx context.Context, rec changes.Record) (types.UpdateCandidate, error) {
	home, err := o.mapper.ToHomePath(rec.Path)
	if err != nil {
		return types.UpdateCandidate{}, err
	}
	diff, err := o.detector.Diff(ctx, rec)
	if err != nil {
		return types.UpdateCandidate{}, err
	}
	return types.UpdateCandidate{StorePath: rec.Path, HomePath: home, Diff: diff}, nil
}

func skippedFiles(result *changes.Result) []types.SkippedFile {
	var skipped []types.SkippedFile
	for _, s := range result.Skipped {
		skipped = append(skipped, types.SkippedFile{StorePath: s.Path, Reason: s.Err.Error()})
	}
	return skipped
}
