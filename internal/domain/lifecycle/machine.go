// Package lifecycle models the report status graph as an explicit state
// machine. Status writes go through a Machine so an illegal move (for
// example reviewing a completed report) is a typed error instead of a
// silent overwrite.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"expense-report-service/internal/domain/entity"
)

// Trigger represents an event that can move a report between statuses
type Trigger string

const (
	// TriggerSubmit sends a draft to the assigned supervisor.
	TriggerSubmit Trigger = "SUBMIT"

	// TriggerReject returns a report to draft with line feedback. It is
	// also permitted from Draft and Pending Upload so re-running a
	// review batch converges instead of failing.
	TriggerReject Trigger = "REJECT"

	// TriggerApprove queues a fully approved report for upload.
	TriggerApprove Trigger = "APPROVE"

	// TriggerComplete marks a report uploaded to the accounting system.
	TriggerComplete Trigger = "COMPLETE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

var (
	// ErrInvalidTransition is returned when a status transition is not allowed
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrGuardFailed is returned when a guard condition fails
	ErrGuardFailed = errors.New("guard condition failed")
)

// GuardFunc is a function that evaluates whether a transition should be allowed
type GuardFunc func(ctx context.Context) bool

// transition is one permitted move with an optional guard
type transition struct {
	to    entity.ReportStatus
	guard GuardFunc
}

// Machine tracks one report's status and validates moves against the
// configured transition table.
type Machine struct {
	current     entity.ReportStatus
	transitions map[entity.ReportStatus]map[Trigger][]transition
}

// Builder assembles a transition table for Machines
type Builder struct {
	transitions map[entity.ReportStatus]map[Trigger][]transition
}

// NewBuilder creates a new empty builder
func NewBuilder() *Builder {
	return &Builder{
		transitions: make(map[entity.ReportStatus]map[Trigger][]transition),
	}
}

// Permit allows trigger to move from one status to another
func (b *Builder) Permit(from entity.ReportStatus, trigger Trigger, to entity.ReportStatus) *Builder {
	return b.PermitIf(from, trigger, to, nil)
}

// PermitIf allows the move only when guard passes at fire time
func (b *Builder) PermitIf(from entity.ReportStatus, trigger Trigger, to entity.ReportStatus, guard GuardFunc) *Builder {
	if !from.IsValid() || !to.IsValid() {
		panic(fmt.Sprintf("invalid status in transition %s -> %s", from, to))
	}

	if b.transitions[from] == nil {
		b.transitions[from] = make(map[Trigger][]transition)
	}
	b.transitions[from][trigger] = append(b.transitions[from][trigger], transition{to: to, guard: guard})
	return b
}

// Build creates a machine positioned at the given status
func (b *Builder) Build(current entity.ReportStatus) *Machine {
	if !current.IsValid() {
		panic(fmt.Sprintf("invalid initial status: %s", current))
	}
	return &Machine{current: current, transitions: b.transitions}
}

// NewReportMachine builds a machine over the standard report status
// graph, positioned at the given status.
func NewReportMachine(current entity.ReportStatus) *Machine {
	return NewBuilder().
		Permit(entity.StatusDraft, TriggerSubmit, entity.StatusPendingReview).
		Permit(entity.StatusPendingReview, TriggerReject, entity.StatusDraft).
		Permit(entity.StatusPendingReview, TriggerApprove, entity.StatusPendingUpload).
		// Re-applying a review batch is idempotent: the same verdict
		// lands on the same status.
		Permit(entity.StatusDraft, TriggerReject, entity.StatusDraft).
		Permit(entity.StatusDraft, TriggerApprove, entity.StatusPendingUpload).
		Permit(entity.StatusPendingUpload, TriggerReject, entity.StatusDraft).
		Permit(entity.StatusPendingUpload, TriggerApprove, entity.StatusPendingUpload).
		Permit(entity.StatusPendingUpload, TriggerComplete, entity.StatusCompleted).
		Build(current)
}

// State returns the current status
func (m *Machine) State() entity.ReportStatus {
	return m.current
}

// CanFire returns true if the trigger is permitted in the current status
func (m *Machine) CanFire(trigger Trigger) bool {
	return len(m.transitions[m.current][trigger]) > 0
}

// Fire executes the trigger, moving to the new status if allowed
func (m *Machine) Fire(ctx context.Context, trigger Trigger) error {
	candidates := m.transitions[m.current][trigger]
	if len(candidates) == 0 {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.current)
	}

	for _, t := range candidates {
		if t.guard == nil || t.guard(ctx) {
			m.current = t.to
			return nil
		}
	}
	return fmt.Errorf("%w: trigger %s from %s", ErrGuardFailed, trigger, m.current)
}

// PermittedTriggers returns all triggers that can fire in the current status
func (m *Machine) PermittedTriggers() []Trigger {
	config := m.transitions[m.current]
	triggers := make([]Trigger, 0, len(config))
	for trigger := range config {
		triggers = append(triggers, trigger)
	}
	return triggers
}
