package domain

import (
	"fmt"
	"strings"
)

// ActionKind enumerates the three portfolio actions the model may recommend.
type ActionKind string

const (
	ActionOptimize    ActionKind = "optimize"
	ActionConsolidate ActionKind = "consolidate"
	ActionTerminate   ActionKind = "terminate"
)

// Action is a parsed recommendation. Target is set only for consolidate
// actions and names the vendor to merge with.
type Action struct {
	Kind   ActionKind
	Target string
}

// String renders the action in the wire shape the model was asked for,
// e.g. "optimize" or "consolidate: aws".
func (a Action) String() string {
	if a.Kind == ActionConsolidate {
		return fmt.Sprintf("%s: %s", a.Kind, a.Target)
	}
	return string(a.Kind)
}

// IsZero reports whether the action has not been assigned yet.
func (a Action) IsZero() bool {
	return a.Kind == ""
}

// ParseAction parses a raw model reply into an Action. The reply is trimmed,
// lowercased and stripped of stray quoting before matching; anything that is
// not one of the three permitted shapes is a MalformedResponseError.
func ParseAction(raw string) (Action, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Trim(s, "`\"'")
	s = strings.TrimSpace(s)

	switch s {
	case string(ActionOptimize):
		return Action{Kind: ActionOptimize}, nil
	case string(ActionTerminate):
		return Action{Kind: ActionTerminate}, nil
	}

	if rest, ok := strings.CutPrefix(s, "consolidate:"); ok {
		target := strings.TrimSpace(rest)
		target = strings.TrimPrefix(target, "[")
		target = strings.TrimSuffix(target, "]")
		target = strings.TrimSpace(target)
		if target == "" {
			return Action{}, &MalformedResponseError{
				Stage:    "recommendation",
				Response: raw,
				Reason:   "consolidate action without a target vendor",
			}
		}
		return Action{Kind: ActionConsolidate, Target: target}, nil
	}

	return Action{}, &MalformedResponseError{
		Stage:    "recommendation",
		Response: raw,
		Reason:   "action is not one of optimize, consolidate: <vendor>, terminate",
	}
}
