package prompt

import (
	"fmt"

	"github.com/kfreiman/interviewprep/internal/session"
)

var greetings = map[session.Tone]string{
	session.ToneFriendly:     "Welcome! I'm so excited to help you prepare!",
	session.ToneProfessional: "Welcome to your interview preparation session.",
	session.ToneStrict:       "Welcome. Let's begin the interview. I expect focused, detailed answers.",
}

// FirstQuestion is the opening question every interview starts with
func FirstQuestion(role session.Role) string {
	return fmt.Sprintf("Tell me about yourself and why you're interested in this %s position.", role)
}

// Welcome renders the opening assistant message for a new interview
func Welcome(cfg session.Config) string {
	greeting, ok := greetings[cfg.Tone]
	if !ok {
		greeting = greetings[session.ToneProfessional]
	}

	note := "Remember: I'll be scoring each of your responses from 1-10 based on quality, depth, and relevance."
	if cfg.Tone == session.ToneStrict {
		note = "Note: Each response will be scored from 1-10. I maintain high standards."
	}

	return fmt.Sprintf(`%s

**Session Configuration:**
- Role: %s %s
- Domain: %s
- Technique: %s
- Interviewer Tone: %s

%s

Let's begin with our first question:

**%s**`, greeting, cfg.Level, cfg.Role, cfg.Domain, cfg.Technique, cfg.Tone, note, FirstQuestion(cfg.Role))
}
