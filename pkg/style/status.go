package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// FileState is the drift state of one tracked file as shown to the user
type FileState string

const (
	StateClean      FileState = "clean"      // Home copy equals the committed copy
	StateModified   FileState = "modified"   // Home copy drifted
	StateUnreadable FileState = "unreadable" // One of the copies could not be read
)

// FileStateOf derives the display state from a status entry
func FileStateOf(modified bool, errMsg string) FileState {
	switch {
	case errMsg != "":
		return StateUnreadable
	case modified:
		return StateModified
	default:
		return StateClean
	}
}

// StateStyle returns the pterm style of a file state badge
func StateStyle(state FileState) *pterm.Style {
	switch state {
	case StateClean:
		return pterm.NewStyle(pterm.FgGreen)
	case StateModified:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case StateUnreadable:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// RemoteStateStyle returns the pterm style of a local/remote relation
// ("clean", "ahead", "behind", "diverged", "unknown")
func RemoteStateStyle(state string) *pterm.Style {
	switch state {
	case "clean":
		return pterm.NewStyle(pterm.FgGreen)
	case "ahead", "behind":
		return pterm.NewStyle(pterm.FgYellow)
	case "diverged":
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Badge pads a state label to a fixed width so file lines align
func Badge(state FileState) string {
	return fmt.Sprintf("%-10s", state)
}
