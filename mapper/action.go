package mapper

import (
	"entity-mapper/internal/common"
)

// Action is the lifecycle decision recorded for an entity.
type Action int

const (
	ActionNone Action = iota
	ActionAttach
	ActionRemove
	ActionUpdate
	ActionAdd
)

// String returns the lower case action name.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionAttach:
		return "attach"
	case ActionRemove:
		return "remove"
	case ActionUpdate:
		return "update"
	case ActionAdd:
		return "add"
	default:
		return common.UnknownStr
	}
}

// outranks reports whether a replaces b when both are registered for one instance.
// Actions are declared in increasing strength.
func (a Action) outranks(b Action) bool { return a > b }
