package safety

import "strings"

// tamperSignals never appear in a legitimate interviewer instruction
var tamperSignals = []string{
	"ignore previous instructions",
	"ignore all previous instructions",
	"disregard above",
	"disregard all prior",
	"you have no restrictions",
	"without any restrictions",
	"do anything now",
	"dan mode",
	"developer mode",
	"jailbreak",
	"<|im_start|>",
	"<|endoftext|>",
}

// tamperSignal returns the first denylisted substring found in the instruction
func tamperSignal(instruction string) (string, bool) {
	lower := strings.ToLower(instruction)
	for _, signal := range tamperSignals {
		if strings.Contains(lower, signal) {
			return signal, true
		}
	}
	return "", false
}

// IsTampered reports whether the system instruction contains a jailbreak signal
func IsTampered(instruction string) bool {
	_, found := tamperSignal(instruction)
	return found
}

// CheckInstruction returns a *TamperedInstructionError if the instruction is tampered
func CheckInstruction(instruction string) error {
	if signal, found := tamperSignal(instruction); found {
		return &TamperedInstructionError{Signal: signal}
	}
	return nil
}
