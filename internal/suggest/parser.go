package suggest

import "strings"

type Kind int

const (
	// Structured is a reason plus an improved line.
	Structured Kind = iota
	// Bare is an improved line with no stated reason.
	Bare
	// NoChange means the oracle returned the input unchanged.
	NoChange
)

// Outcome is the classified form of a raw oracle response.
type Outcome struct {
	Kind       Kind
	Reason     string
	Suggestion string
}

const (
	reasonMarker     = "reason:"
	suggestionMarker = "suggestion:"
)

// Parse classifies raw oracle text against the expected two-field format.
// Responses carrying both markers split on the first "\nsuggestion:";
// anything else is a bare suggestion, or NoChange when it matches the
// original line.
func Parse(raw, original string) Outcome {

	if strings.Contains(raw, reasonMarker) && strings.Contains(raw, suggestionMarker) {

		parts := strings.SplitN(raw, "\n"+suggestionMarker, 2)

		if len(parts) == 2 {
			reason := strings.TrimSpace(parts[0])
			reason = strings.TrimSpace(strings.TrimPrefix(reason, reasonMarker))

			return Outcome{
				Kind:       Structured,
				Reason:     reason,
				Suggestion: strings.TrimSpace(parts[1]),
			}
		}

		// markers present but not splittable: fall through to bare mode
	}

	if strings.TrimSpace(raw) == strings.TrimSpace(original) {
		return Outcome{Kind: NoChange}
	}

	return Outcome{
		Kind:       Bare,
		Suggestion: strings.TrimSpace(raw),
	}
}

// Body renders the Markdown comment body for the outcome. NoChange
// renders empty; callers must not post it.
func (o Outcome) Body() string {

	switch o.Kind {

	case Structured:
		return "**Reason for improvement:** " + o.Reason +
			"\n```suggestion\n" + o.Suggestion + "\n```"

	case Bare:
		return "```suggestion\n" + o.Suggestion + "\n```"

	default:
		return ""
	}
}
