package remote

// State is the relation between local main and the default remote's main
type State int8

const (
	// Unknown means the relation could not be computed (no remote, or
	// nothing fetched yet)
	Unknown State = iota
	// Clean means local main equals remote main
	Clean
	// Ahead means local has commits the remote lacks
	Ahead
	// Behind means the remote has commits local lacks and local can
	// fast-forward to them
	Behind
	// Diverged means both sides have commits the other lacks
	Diverged
)

// String returns a human-readable string representation of the state.
func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Ahead:
		return "ahead"
	case Behind:
		return "behind"
	case Diverged:
		return "diverged"
	default:
		return "unknown"
	}
}
