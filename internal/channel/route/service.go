package route

import (
	"strings"

	"github.com/yagapon/oshirase/internal/department"
)

// Resolver picks a destination by trying its steps in order:
// explicit channel, department channel, default channel.
type Resolver struct {
	steps []Step
}

// NewResolver builds the standard three-step chain.
func NewResolver(dir *department.Directory, defaultChannelID string) *Resolver {
	return NewResolverWithSteps(
		Explicit(),
		ByDepartment(dir),
		Default(dir, defaultChannelID),
	)
}

// NewResolverWithSteps builds a resolver from custom steps.
func NewResolverWithSteps(steps ...Step) *Resolver {
	return &Resolver{steps: steps}
}

// Resolve returns the destination for an optional explicit channel id and
// an optional department.
func (r *Resolver) Resolve(explicitChannelID, dept string) (Destination, error) {
	req := Request{
		ExplicitChannelID: strings.TrimSpace(explicitChannelID),
		Department:        strings.TrimSpace(dept),
	}
	for _, step := range r.steps {
		if dest, ok := step(req); ok {
			return dest, nil
		}
	}
	return Destination{}, ErrNoDestination
}

// Explicit returns the caller's channel verbatim and never mentions a role.
func Explicit() Step {
	return func(req Request) (Destination, bool) {
		if req.ExplicitChannelID == "" || req.ExplicitChannelID == PresetChannel {
			return Destination{}, false
		}
		return Destination{ChannelID: req.ExplicitChannelID}, true
	}
}

// ByDepartment uses the department's own channel and role.
func ByDepartment(dir *department.Directory) Step {
	return func(req Request) (Destination, bool) {
		channelID, ok := dir.Channel(req.Department)
		if !ok {
			return Destination{}, false
		}
		roleID, _ := dir.Role(req.Department)
		return Destination{ChannelID: channelID, RoleID: roleID}, true
	}
}

// Default sends to the shared channel, still mentioning the department role if any.
func Default(dir *department.Directory, channelID string) Step {
	channelID = strings.TrimSpace(channelID)
	return func(req Request) (Destination, bool) {
		if channelID == "" {
			return Destination{}, false
		}
		roleID, _ := dir.Role(req.Department)
		return Destination{ChannelID: channelID, RoleID: roleID}, true
	}
}
