package route

import "errors"

// PresetChannel is the explicit channel value that means "use the configured destination".
const PresetChannel = "preset"

var ErrNoDestination = errors.New("no destination channel configured")

// Destination is where a notification goes and which role it mentions.
type Destination struct {
	ChannelID string
	RoleID    string
}

// Request is the input to destination resolution.
type Request struct {
	ExplicitChannelID string
	Department        string
}

// Step tries to resolve a request; the first step that reports true wins.
type Step func(req Request) (Destination, bool)
