package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/cfgtool/pkg/engine"
	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/logging"
	"github.com/arthur-debert/cfgtool/pkg/types"
)

// RollbackMessage is the commit message template of a rollback: file name,
// then short revision.
const RollbackMessage = "Rolled back %s to %s"

// History returns the commits that changed a tracked file, newest first.
// limit <= 0 returns all of them.
func (s *Store) History(ctx context.Context, homePath string, limit int) ([]types.Revision, error) {
	rel, err := s.resolve(homePath)
	if err != nil {
		return nil, err
	}
	if !s.IsTracked(homePath) {
		return nil, errors.Newf(errors.ErrNotFound, "%s is not tracked", homePath).
			WithDetail("path", homePath)
	}

	commits, err := s.repo.FileHistory(ctx, rel, limit)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEngine, "failed to read history of %s", rel)
	}

	revisions := make([]types.Revision, 0, len(commits))
	for _, c := range commits {
		hash := c.Hash.String()
		revisions = append(revisions, types.Revision{
			Hash:    hash,
			Short:   hash[:7],
			Message: strings.TrimSpace(c.Message),
			Author:  c.Author.Name,
			When:    c.Author.When,
		})
	}
	return revisions, nil
}

// Rollback restores a tracked file to its content at revision. The old
// content is committed to the store on top of HEAD and then written over
// the home copy. An empty message selects RollbackMessage.
func (s *Store) Rollback(ctx context.Context, homePath, revision, message string) (*types.RollbackResult, error) {
	logger := s.logger.With().Str("path", homePath).Str("revision", revision).Logger()
	done := logging.LogOperationStart(logger, "rollback")
	defer done()

	rel, err := s.resolve(homePath)
	if err != nil {
		return nil, err
	}
	if !s.IsTracked(homePath) {
		return nil, errors.Newf(errors.ErrNotFound, "%s is not tracked", homePath).
			WithDetail("path", homePath)
	}

	hash, err := s.repo.ResolveCommit(ctx, revision)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "unknown revision %s", revision).
			WithDetail("revision", revision)
	}

	content, mode, err := s.repo.FileAt(ctx, hash, rel)
	if stderrors.Is(err, engine.ErrFileMissing) {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "%s did not exist at %s", rel, revision).
			WithDetail("revision", revision)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEngine, "failed to read %s at %s", rel, revision)
	}

	short := hash.String()[:7]
	if message == "" {
		message = fmt.Sprintf(RollbackMessage, rel, short)
	}

	prev := s.snapshot(rel)
	if err := s.writeStoreFile(rel, content, mode.Perm()); err != nil {
		s.undoTrack(ctx, rel, prev)
		return nil, err
	}

	commit, committed, err := s.commit(ctx, rel, message)
	if err != nil {
		s.undoTrack(ctx, rel, prev)
		return nil, err
	}

	home, err := s.RestoreToHome(rel)
	if err != nil {
		return nil, err
	}

	result := &types.RollbackResult{
		HomePath:  home,
		StorePath: rel,
		Revision:  hash.String(),
		Committed: committed,
	}
	if committed {
		result.Commit = commit.String()
	}

	logger.Info().
		Str("store_path", rel).
		Bool("committed", committed).
		Msg("File rolled back")

	return result, nil
}

// engineError classifies an engine failure, pointing at the fix when the
// commit identity is missing
func engineError(err error, message string) error {
	if stderrors.Is(err, engine.ErrNoSignature) {
		return errors.Wrap(err, errors.ErrEngine,
			message+": set user.name and user.email in your git config").
			WithDetail("hint", "git config --global user.name 'Your Name'")
	}
	return errors.Wrap(err, errors.ErrEngine, message)
}

// renderTemplate substitutes name into a one-%s template
func renderTemplate(template, name string) string {
	if !strings.Contains(template, "%s") {
		return template
	}
	return fmt.Sprintf(template, name)
}
