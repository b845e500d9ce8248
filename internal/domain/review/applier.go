package review

import (
	"context"

	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/domain/lifecycle"
)

// Severity categories carried back to the user interface.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
)

// Outcome is the user-facing result of applying a review batch.
type Outcome struct {
	Message  string
	Severity string
}

// RejectionNote is recorded on a report when any line in the batch was
// rejected; the actionable feedback lives on the lines themselves.
const RejectionNote = "Line-level feedback provided."

const (
	msgReturnedToDraft = "Report returned to draft with line-level feedback."
	msgAllApproved     = "All expense lines approved. Report queued for NetSuite upload."
)

// Apply validates every decision against every line of the report, then
// mutates line and report status in one pass. The whole batch is checked
// before any mutation so a bad decision cannot leave a review half
// applied. Rejections return the report to draft; a fully approved batch
// queues it for upload. The caller persists the mutated entities.
func Apply(report *entity.Report, decisions DecisionSet) (Outcome, error) {
	if len(report.Lines) == 0 {
		return Outcome{}, &ValidationError{Reason: ReasonNoLines, Msg: msgNoLines}
	}

	// Phase one: validation only.
	anyRejected := false
	for _, line := range report.Lines {
		decision, ok := decisions[line.ID]
		if !ok {
			return Outcome{}, &ValidationError{Reason: ReasonMissingDecision, Msg: msgMissingDecision}
		}
		switch decision.Action {
		case ActionApprove:
		case ActionReject:
			if decision.Comment == "" {
				return Outcome{}, &ValidationError{Reason: ReasonMissingComment, Msg: msgMissingComment}
			}
			anyRejected = true
		default:
			return Outcome{}, &ValidationError{Reason: ReasonInvalidAction, Msg: msgInvalidAction}
		}
	}

	machine := lifecycle.NewReportMachine(report.Status)
	trigger := lifecycle.TriggerApprove
	if anyRejected {
		trigger = lifecycle.TriggerReject
	}
	if !machine.CanFire(trigger) {
		return Outcome{}, &ValidationError{Reason: ReasonReportClosed, Msg: msgReportClosed}
	}
	if err := machine.Fire(context.Background(), trigger); err != nil {
		return Outcome{}, &ValidationError{Reason: ReasonReportClosed, Msg: msgReportClosed}
	}

	// Phase two: the batch is known good, mutate.
	for _, line := range report.Lines {
		decision := decisions[line.ID]
		if decision.Action == ActionApprove {
			line.ReviewStatus = entity.LineApproved
			line.ReviewComment = ""
			continue
		}
		line.ReviewStatus = entity.LineRejected
		line.ReviewComment = decision.Comment
	}

	report.Status = machine.State()
	if anyRejected {
		report.RejectionComment = RejectionNote
		return Outcome{Message: msgReturnedToDraft, Severity: SeverityInfo}, nil
	}

	report.RejectionComment = ""
	return Outcome{Message: msgAllApproved, Severity: SeveritySuccess}, nil
}
