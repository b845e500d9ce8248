// Package review contains the pure line-item review logic: per-line
// reviewer decisions are validated as a batch and applied atomically to a
// report and its lines. Callers persist the mutated entities.
package review

import (
	"fmt"
	"strings"
)

// Action is a reviewer's verdict on a single expense line.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Decision is one reviewer verdict for one expense line. Construct
// decisions with NewDecision so the action is validated up front rather
// than interpreted loosely downstream.
type Decision struct {
	LineID  int64
	Action  Action
	Comment string
}

// NewDecision builds a Decision, normalizing the action and trimming the
// comment. The comment requirement for rejections is enforced by Apply,
// which has the full batch in view.
func NewDecision(lineID int64, action, comment string) (Decision, error) {
	normalized := Action(strings.ToLower(strings.TrimSpace(action)))
	switch normalized {
	case ActionApprove, ActionReject:
	default:
		return Decision{}, &ValidationError{Reason: ReasonInvalidAction, Msg: msgInvalidAction}
	}
	return Decision{
		LineID:  lineID,
		Action:  normalized,
		Comment: strings.TrimSpace(comment),
	}, nil
}

// DecisionSet holds at most one decision per line.
type DecisionSet map[int64]Decision

// NewDecisionSet builds a DecisionSet from a slice of decisions. A
// duplicate line id is a malformed batch.
func NewDecisionSet(decisions []Decision) (DecisionSet, error) {
	set := make(DecisionSet, len(decisions))
	for _, d := range decisions {
		if _, ok := set[d.LineID]; ok {
			return nil, &ValidationError{
				Reason: ReasonInvalidAction,
				Msg:    fmt.Sprintf("duplicate decision for expense line %d", d.LineID),
			}
		}
		set[d.LineID] = d
	}
	return set, nil
}
