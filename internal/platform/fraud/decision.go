package fraud

import "strings"

// Decision is the outcome the backend assigns to a transaction.
type Decision string

const (
	DecisionApprove   Decision = "APPROVE"
	DecisionBlock     Decision = "BLOCK"
	DecisionChallenge Decision = "CHALLENGE"
	DecisionEscalate  Decision = "ESCALATE_TO_HUMAN"

	// DecisionUnknown marks a value the console does not recognise.
	DecisionUnknown Decision = "UNKNOWN"
)

// ParseDecision maps a backend value onto the closed set, case-insensitively.
func ParseDecision(s string) Decision {
	switch d := Decision(strings.ToUpper(strings.TrimSpace(s))); d {
	case DecisionApprove, DecisionBlock, DecisionChallenge, DecisionEscalate:
		return d
	default:
		return DecisionUnknown
	}
}

// IsValid returns true for the four backend decisions
func (d Decision) IsValid() bool {
	switch d {
	case DecisionApprove, DecisionBlock, DecisionChallenge, DecisionEscalate:
		return true
	}
	return false
}

// IsResolution reports whether an analyst may close a HITL case with d.
func (d Decision) IsResolution() bool {
	return d == DecisionApprove || d == DecisionChallenge || d == DecisionBlock
}

// Badge describes how a decision is rendered.
type Badge struct {
	Class string // CSS class carrying the colour family
	Text  string
	Tone  string // green, red, orange, escalate, neutral
}

// Badge returns the badge for d. The text is always the decision value itself.
func (d Decision) Badge() Badge {
	switch d {
	case DecisionApprove:
		return Badge{Class: "status-approve", Text: string(d), Tone: "green"}
	case DecisionBlock:
		return Badge{Class: "status-block", Text: string(d), Tone: "red"}
	case DecisionChallenge:
		return Badge{Class: "status-challenge", Text: string(d), Tone: "orange"}
	case DecisionEscalate:
		return Badge{Class: "status-escalate", Text: string(d), Tone: "escalate"}
	default:
		return Badge{Class: "status-unknown", Text: string(DecisionUnknown), Tone: "neutral"}
	}
}

// Resolutions lists the decisions offered to an analyst, in display order.
func Resolutions() []Decision {
	return []Decision{DecisionApprove, DecisionChallenge, DecisionBlock}
}
