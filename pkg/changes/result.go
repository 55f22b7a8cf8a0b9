package changes

import (
	"github.com/arthur-debert/cfgtool/pkg/paths"
)

// RenderMode selects how Result.Paths spells each record
type RenderMode int

const (
	// StoreRelative renders tracked-file names, for acting on the store
	StoreRelative RenderMode = iota
	// HomeAbsolute renders absolute home paths, for acting on the home copy
	HomeAbsolute
)

// Result is the outcome of one detection pass
type Result struct {
	Records []Record
	Skipped []Skipped

	mapper *paths.Mapper
}

// Empty reports whether no tracked file drifted
func (r *Result) Empty() bool {
	return len(r.Records) == 0
}

// Paths renders the records in the requested mode
func (r *Result) Paths(mode RenderMode) ([]string, error) {
	out := make([]string, 0, len(r.Records))
	for _, rec := range r.Records {
		if mode == StoreRelative {
			out = append(out, rec.Path)
			continue
		}
		home, err := r.mapper.ToHomePath(rec.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, home)
	}
	return out, nil
}

// Contains reports whether rel drifted
func (r *Result) Contains(rel string) bool {
	for _, rec := range r.Records {
		if rec.Path == rel {
			return true
		}
	}
	return false
}
