// Package changes detects drift between the store copy of each tracked file
// and its home directory counterpart.
//
// Detection is recomputed from scratch on every call: both copies are read
// in full and compared byte for byte. Nothing is cached between calls.
package changes

import (
	"bytes"
	"context"

	"github.com/arthur-debert/cfgtool/pkg/errors"
	"github.com/arthur-debert/cfgtool/pkg/logging"
	"github.com/arthur-debert/cfgtool/pkg/paths"
	"github.com/arthur-debert/cfgtool/pkg/types"
	"github.com/rs/zerolog"
)

// Source is the view of the tracking store the detector needs
type Source interface {
	// TrackedFiles returns store-relative names, sorted
	TrackedFiles(ctx context.Context) ([]string, error)
	// ReadStoreFile reads the store copy of a tracked file
	ReadStoreFile(rel string) ([]byte, error)
}

// Policy decides what happens when one side of a tracked file cannot be read
type Policy string

const (
	// PolicyAbort fails the whole pass on the first unreadable file
	PolicyAbort Policy = "abort"
	// PolicySkip reports the file in Result.Skipped and keeps going
	PolicySkip Policy = "skip"
)

// Options configures a Detector
type Options struct {
	// Policy defaults to PolicyAbort
	Policy Policy
}

// Record is a tracked file whose store and home contents differ
type Record struct {
	// Path is the store-relative name
	Path string
}

// Skipped is a tracked file left out of a PolicySkip pass
type Skipped struct {
	Path string
	Err  error
}

// Detector compares tracked files against the home directory
type Detector struct {
	source Source
	mapper *paths.Mapper
	fs     types.FS
	policy Policy
	logger zerolog.Logger
}

// NewDetector creates a detector reading home files through fs
func NewDetector(source Source, mapper *paths.Mapper, fs types.FS, opts Options) *Detector {
	if opts.Policy == "" {
		opts.Policy = PolicyAbort
	}
	return &Detector{
		source: source,
		mapper: mapper,
		fs:     fs,
		policy: opts.Policy,
		logger: logging.GetLogger("changes"),
	}
}

// Policy returns the unreadable-file policy in effect
func (d *Detector) Policy() Policy {
	return d.policy
}

// WithPolicy returns a copy of the detector using policy
func (d *Detector) WithPolicy(policy Policy) *Detector {
	clone := *d
	clone.policy = policy
	return &clone
}

// Detect compares every tracked file with its home counterpart
func (d *Detector) Detect(ctx context.Context) (*Result, error) {
	done := logging.LogOperationStart(d.logger, "detect changes")
	defer done()

	tracked, err := d.source.TrackedFiles(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{mapper: d.mapper}
	for _, rel := range tracked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed, err := d.compare(rel)
		if err != nil {
			if d.policy != PolicySkip {
				return nil, err
			}
			d.logger.Warn().Err(err).Str("path", rel).Msg("Skipping unreadable tracked file")
			result.Skipped = append(result.Skipped, Skipped{Path: rel, Err: err})
			continue
		}
		if changed {
			result.Records = append(result.Records, Record{Path: rel})
		}
	}

	d.logger.Debug().
		Int("tracked", len(tracked)).
		Int("changed", len(result.Records)).
		Int("skipped", len(result.Skipped)).
		Msg("Change detection complete")

	return result, nil
}

// compare reports whether the two copies of rel differ
func (d *Detector) compare(rel string) (bool, error) {
	storeContent, homeContent, _, err := d.read(rel)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(storeContent, homeContent), nil
}

// read loads both copies of rel
func (d *Detector) read(rel string) (storeContent, homeContent []byte, homePath string, err error) {
	homePath, err = d.mapper.ToHomePath(rel)
	if err != nil {
		return nil, nil, "", err
	}

	storeContent, err = d.source.ReadStoreFile(rel)
	if err != nil {
		if !errors.IsErrorCode(err, errors.ErrIO) {
			err = errors.Wrapf(err, errors.ErrIO, "failed to read store copy of %s", rel)
		}
		return nil, nil, "", err
	}

	homeContent, err = d.fs.ReadFile(homePath)
	if err != nil {
		return nil, nil, "", errors.Wrapf(err, errors.ErrIO, "failed to read %s", homePath).
			WithDetail("path", rel)
	}

	return storeContent, homeContent, homePath, nil
}
