package core

import (
	"github.com/arthur-debert/cfgtool/pkg/changes"
	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/logging"
	"github.com/arthur-debert/cfgtool/pkg/paths"
	"github.com/arthur-debert/cfgtool/pkg/remote"
	"github.com/arthur-debert/cfgtool/pkg/store"
	"github.com/arthur-debert/cfgtool/pkg/types"
	"github.com/rs/zerolog"
)

// Options holds the collaborators of an Orchestrator
type Options struct {
	Store    *store.Store
	Detector *changes.Detector
	Syncer   *remote.Syncer
	Mapper   *paths.Mapper
	Prompter types.Prompter

	// RemoteName is used when sync registers a remote from a prompted URL.
	// Defaults to "origin".
	RemoteName string
}

// Orchestrator runs cfgtool's operations
type Orchestrator struct {
	store      *store.Store
	detector   *changes.Detector
	syncer     *remote.Syncer
	mapper     *paths.Mapper
	prompter   types.Prompter
	remoteName string
	logger     zerolog.Logger
}

// New creates an orchestrator. Every collaborator except Prompter is
// required; operations that need a decision fail without one.
func New(opts Options) (*Orchestrator, error) {
	switch {
	case opts.Store == nil:
		return nil, errors.New(errors.ErrInvalidInput, "orchestrator requires a store")
	case opts.Detector == nil:
		return nil, errors.New(errors.ErrInvalidInput, "orchestrator requires a change detector")
	case opts.Syncer == nil:
		return nil, errors.New(errors.ErrInvalidInput, "orchestrator requires a remote syncer")
	case opts.Mapper == nil:
		return nil, errors.New(errors.ErrInvalidInput, "orchestrator requires a path mapper")
	}
	if opts.RemoteName == "" {
		opts.RemoteName = "origin"
	}

	return &Orchestrator{
		store:      opts.Store,
		detector:   opts.Detector,
		syncer:     opts.Syncer,
		mapper:     opts.Mapper,
		prompter:   opts.Prompter,
		remoteName: opts.RemoteName,
		logger:     logging.GetLogger("core"),
	}, nil
}

// Mapper returns the path mapper
func (o *Orchestrator) Mapper() *paths.Mapper {
	return o.mapper
}

func (o *Orchestrator) requirePrompter(operation string) error {
	if o.prompter == nil {
		return errors.Newf(errors.ErrInvalidInput, "%s needs a prompter", operation)
	}
	return nil
}
