package safety

import "fmt"

// RejectReason names the rule that rejected a candidate's input
type RejectReason string

const (
	ReasonEmpty     RejectReason = "empty"
	ReasonTooLong   RejectReason = "too_long"
	ReasonInjection RejectReason = "injection"
	ReasonFlagged   RejectReason = "flagged"
)

// RejectedInputError is returned when input fails the safety gate.
// The candidate can correct the input and resubmit.
type RejectedInputError struct {
	Reason RejectReason
	Detail string
}

func (e *RejectedInputError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("input rejected (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("input rejected (%s)", e.Reason)
}

// UserMessage is the text shown to the candidate
func (e *RejectedInputError) UserMessage() string {
	switch e.Reason {
	case ReasonEmpty:
		return "Please type an answer before submitting."
	case ReasonTooLong:
		return fmt.Sprintf("Your answer is too long. Please keep it under %d characters.", MaxInputLength)
	default:
		return "Inappropriate input detected. Please provide a professional interview response."
	}
}

// TamperedInstructionError is returned when the resolved system instruction
// contains a jailbreak signal. It is a configuration fault, not a user error.
type TamperedInstructionError struct {
	Signal string
}

func (e *TamperedInstructionError) Error() string {
	return fmt.Sprintf("system instruction rejected: contains %q", e.Signal)
}
