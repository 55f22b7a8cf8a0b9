package core

import (
	"context"

	"github.com/arthur-debert/cfgtool/pkg/changes"
	"github.com/arthur-debert/cfgtool/pkg/config"
	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/filesystem"
	"github.com/arthur-debert/cfgtool/pkg/paths"
	"github.com/arthur-debert/cfgtool/pkg/remote"
	"github.com/arthur-debert/cfgtool/pkg/store"
	"github.com/arthur-debert/cfgtool/pkg/types"
)

// Setup describes everything Open needs to assemble an orchestrator
type Setup struct {
	// Config defaults to config.Default()
	Config *config.Config

	// HomeRoot defaults to the user's home directory
	HomeRoot string

	// StoreRoot overrides Config.Store.Path and the XDG data default
	StoreRoot string

	// FS is the home-side filesystem. Defaults to the OS filesystem.
	FS types.FS

	Prompter types.Prompter
}

// Open builds the mapper, store, detector and syncer described by setup
// and returns an orchestrator over them
func Open(ctx context.Context, setup Setup) (*Orchestrator, error) {
	cfg := setup.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	homeRoot := setup.HomeRoot
	if homeRoot == "" {
		home, err := paths.GetHomeDirectory()
		if err != nil {
			return nil, err
		}
		homeRoot = home
	}

	storeRoot, err := resolveStoreRoot(setup.StoreRoot, cfg)
	if err != nil {
		return nil, err
	}

	mapper, err := paths.NewMapper(homeRoot, storeRoot)
	if err != nil {
		return nil, err
	}

	fs := setup.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	auth := remote.NewAuth(remote.AuthOptions{
		SSHAgent:      cfg.Remote.Auth.SSHAgent,
		SSHKey:        cfg.Remote.Auth.SSHKey,
		HTTPSTokenEnv: cfg.Remote.Auth.HTTPSTokenEnv,
	})

	st, err := store.Open(ctx, store.Options{
		Mapper:          mapper,
		FS:              fs,
		Auth:            auth,
		MessageTemplate: cfg.Commit.DefaultMessage,
	})
	if err != nil {
		return nil, err
	}

	detector := changes.NewDetector(st, mapper, fs, changes.Options{
		Policy: changes.Policy(cfg.Update.OnUnreadable),
	})
	syncer := remote.NewSyncer(st.Repo(), remote.Options{Preferred: cfg.Remote.Preferred})

	return New(Options{
		Store:      st,
		Detector:   detector,
		Syncer:     syncer,
		Mapper:     mapper,
		Prompter:   setup.Prompter,
		RemoteName: cfg.Remote.Preferred,
	})
}

func resolveStoreRoot(explicit string, cfg *config.Config) (string, error) {
	if explicit != "" {
		return paths.ExpandHome(explicit), nil
	}
	if cfg.Store.Path != "" {
		return paths.ExpandHome(cfg.Store.Path), nil
	}
	p, err := paths.New()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrIO, "failed to resolve cfgtool directories")
	}
	return p.DefaultStoreRoot(), nil
}
