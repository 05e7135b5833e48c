package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/newtonium-installer/internal/domain/install"
)

// ErrMalformedMessage is returned for inbound messages that cannot be parsed.
var ErrMalformedMessage = errors.New("malformed inbound message")

// InstallRequest is the payload of install and launch messages.
type InstallRequest = install.Request

// Kind identifies an action.
type Kind int

const (
	ActionUnknown Kind = iota
	ActionInstall
	ActionLaunch
	ActionClose
)

func (k Kind) String() string {
	switch k {
	case ActionInstall:
		return "install"
	case ActionLaunch:
		return "launch"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

// Action is one parsed inbound message.
type Action struct {
	Kind Kind
	// Name is the raw action name, kept for unknown actions.
	Name    string
	Request InstallRequest
}

// Parse decodes an inbound message. The JSON payload is only decoded for
// actions that carry a location.
func Parse(raw string) (Action, error) {
	name, payload, ok := strings.Cut(raw, ";")
	if !ok {
		return Action{}, fmt.Errorf("%w: missing ';' separator", ErrMalformedMessage)
	}

	action := Action{Name: name}
	switch name {
	case "install":
		action.Kind = ActionInstall
	case "launch":
		action.Kind = ActionLaunch
	case "close":
		action.Kind = ActionClose
		return action, nil
	default:
		return action, nil
	}

	if err := sonic.UnmarshalString(payload, &action.Request); err != nil {
		return Action{}, fmt.Errorf("%w: invalid %s payload: %v", ErrMalformedMessage, name, err)
	}
	if err := action.Request.Validate(); err != nil {
		return Action{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	return action, nil
}
