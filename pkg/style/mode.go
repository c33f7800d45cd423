package style

import (
	"github.com/pkg/errors"
)

// Mode selects which top bar layout the admin bar fix targets
type Mode int

const (
	// ModeNone leaves the fix to the theme's own css
	ModeNone Mode = iota
	// ModeSticky for a top bar wrapped in .sticky
	ModeSticky
	// ModeFixed for a top bar wrapped in .fixed
	ModeFixed
)

func (m Mode) String() string {
	switch m {
	case ModeSticky:
		return "sticky"
	case ModeFixed:
		return "fixed"
	default:
		return "none"
	}
}

// ParseMode parses none, sticky or fixed
func ParseMode(v string) (Mode, error) {
	switch v {
	case "none", "":
		return ModeNone, nil
	case "sticky":
		return ModeSticky, nil
	case "fixed":
		return ModeFixed, nil
	default:
		return ModeNone, errors.Errorf("unknown style mode %q (supported: none, sticky, fixed)", v)
	}
}
