package game

import (
	"strconv"
	"strings"
)

// Action is a controller command for one player. The numbering is part of
// the controller contract and must not change.
type Action uint8

const (
	ActionLeft Action = iota
	ActionRight
	ActionFire
	ActionIdle
)

// NumActions is the size of the action space.
const NumActions = 4

var actionNames = [NumActions]string{"left", "right", "fire", "idle"}

// String returns the action name.
func (a Action) String() string {
	if a.Valid() {
		return actionNames[a]
	}
	return "Action(" + strconv.Itoa(int(a)) + ")"
}

// Valid reports whether a is part of the action space.
func (a Action) Valid() bool {
	return a < NumActions
}

// Validate returns an InvalidActionError for values outside the action space.
func (a Action) Validate() error {
	if !a.Valid() {
		return &InvalidActionError{Value: strconv.Itoa(int(a))}
	}
	return nil
}

// ActionFromIndex converts a policy output index into an Action.
func ActionFromIndex(i int) (Action, error) {
	if i < 0 || i >= NumActions {
		return 0, &InvalidActionError{Value: strconv.Itoa(i)}
	}
	return Action(i), nil
}

// ParseAction parses an action name or index. Names may carry a "move_"
// prefix.
func ParseAction(s string) (Action, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "move_")
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	if i, err := strconv.Atoi(name); err == nil {
		return ActionFromIndex(i)
	}
	return 0, &InvalidActionError{Value: s}
}

// InvalidActionError is returned for actions outside the action space.
// Such actions are rejected, never coerced to idle.
type InvalidActionError struct {
	Value string
}

func (e *InvalidActionError) Error() string {
	return "invalid action " + strconv.Quote(e.Value)
}
