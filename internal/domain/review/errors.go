package review

// Reason identifies which precondition a review batch violated.
type Reason string

const (
	ReasonNoLines         Reason = "no lines"
	ReasonMissingDecision Reason = "missing decision"
	ReasonInvalidAction   Reason = "invalid action"
	ReasonMissingComment  Reason = "missing comment"
	ReasonReportClosed    Reason = "report closed"
)

// User-facing validation messages.
const (
	msgNoLines         = "This report has no expense lines to review."
	msgMissingDecision = "Select approve or reject for every expense line."
	msgInvalidAction   = "Select a valid review action for every expense line."
	msgMissingComment  = "Provide a rejection comment for each rejected expense line."
	msgReportClosed    = "This report has already been completed and can no longer be reviewed."
)

// ValidationError reports a malformed or incomplete review batch. No
// line or report state is mutated when Apply returns one.
type ValidationError struct {
	Reason Reason
	Msg    string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
