package install

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrInvalidLocation is returned for unusable install locations.
var ErrInvalidLocation = errors.New("invalid install location")

// Characters that would change the meaning of the desktop entry Exec line
// or of a shell word.
const forbiddenLocationChars = "\"'`$\\;&|<>()[]{}*?!#~%"

// Request is an install or launch target parsed from a UI message.
type Request struct {
	Location string `json:"location"`
}

// Validate checks the location. It is embedded verbatim in the desktop
// entry, so it must be absolute and contain no whitespace, control
// characters or shell metacharacters.
func (r Request) Validate() error {
	loc := r.Location
	if loc == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidLocation)
	}
	if !filepath.IsAbs(loc) {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidLocation, loc)
	}
	if filepath.Clean(loc) == "/" {
		return fmt.Errorf("%w: refusing to install into /", ErrInvalidLocation)
	}
	for _, c := range loc {
		if unicode.IsSpace(c) || unicode.IsControl(c) {
			return fmt.Errorf("%w: %q contains whitespace or control characters", ErrInvalidLocation, loc)
		}
	}
	if i := strings.IndexAny(loc, forbiddenLocationChars); i >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidLocation, loc, loc[i])
	}
	return nil
}
