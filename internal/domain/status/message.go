package status

import "strings"

// Kind discriminates Message variants.
type Kind int

const (
	KindUnknown Kind = iota
	KindProgress
	KindOk
	KindErr
)

// Wire tags
const (
	TagProgress = "progress"
	TagOk       = "OK"
	TagErr      = "ERR"
	TagUnknown  = "unknown"
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindOk:
		return "ok"
	case KindErr:
		return "err"
	default:
		return "unknown"
	}
}

// Message is a single status update.
type Message struct {
	Kind Kind
	Text string
}

// Progress reports that an install has started.
func Progress() Message {
	return Message{Kind: KindProgress}
}

// Ok reports a successful install with the command's standard output.
func Ok(text string) Message {
	return Message{Kind: KindOk, Text: text}
}

// Err reports a failure with a diagnostic text.
func Err(text string) Message {
	return Message{Kind: KindErr, Text: text}
}

// Terminal reports whether the message ends an install.
func (m Message) Terminal() bool {
	return m.Kind == KindOk || m.Kind == KindErr
}

// Wire encodes the message as "<tag>;<text>".
func (m Message) Wire() string {
	switch m.Kind {
	case KindProgress:
		return TagProgress + ";"
	case KindOk:
		return TagOk + ";" + m.Text
	case KindErr:
		return TagErr + ";" + m.Text
	default:
		return TagUnknown + ";" + m.Text
	}
}

// Parse decodes a wire string. The text may itself contain ';'. Unrecognized
// tags yield KindUnknown.
func Parse(wire string) Message {
	tag, text, _ := strings.Cut(wire, ";")
	switch tag {
	case TagProgress:
		return Progress()
	case TagOk:
		return Ok(text)
	case TagErr:
		return Err(text)
	default:
		return Message{Kind: KindUnknown, Text: text}
	}
}
