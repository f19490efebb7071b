package failure

import "strings"

const (
	NameTimeout      = "TimeoutError"
	NameGeneric      = "Error"
	KindNameAssert   = "AssertionError"
	noteLocator      = "element not found or not interactive"
	noteNavigation   = "page navigation timed out"
	noteSelector     = "selector not found within timeout"
	defaultStepLabel = "unnamed step"
)

// Raw is an opaque failure reduced to the fields the classification rules
// inspect. It is produced by Extract at the browser boundary.
type Raw struct {
	Name         string
	DeclaredKind string
	Message      string
	Stack        string
}

// Record is one classified failure. Kind is computed once by Classify.
type Record struct {
	StepName        string
	Kind            Kind
	Label           string
	OriginalMessage string
	Context         string
	Notes           []string
	Suggestions     []string
	StackTrace      string
}

// Classify maps raw onto the closed kind taxonomy. Rules are evaluated in
// priority order and the first match wins.
func Classify(raw Raw, stepName, hint string) Record {
	if strings.TrimSpace(stepName) == "" {
		stepName = defaultStepLabel
	}

	kind := classifyKind(raw)

	rec := Record{
		StepName:        stepName,
		Kind:            kind,
		OriginalMessage: raw.Message,
		Context:         strings.TrimSpace(hint),
		Suggestions:     Suggestions(kind),
		StackTrace:      raw.Stack,
	}

	if p, ok := presentations[kind]; ok {
		rec.Label = p.label
	} else {
		rec.Label = raw.Name
		if rec.Label == "" {
			rec.Label = NameGeneric
		}
	}

	if kind == KindTimeout {
		rec.Notes = timeoutNotes(raw.Message)
	}

	return rec
}

func classifyKind(raw Raw) Kind {
	msg := raw.Message

	switch {
	case raw.Name == NameTimeout || strings.Contains(msg, "timeout"):
		return KindTimeout
	case strings.Contains(msg, "Element is not attached"):
		return KindStaleElement
	case strings.Contains(msg, "not visible"):
		return KindNotVisible
	case strings.Contains(msg, "not enabled") || strings.Contains(msg, "disabled"):
		return KindDisabled
	case strings.Contains(msg, "not clickable") || strings.Contains(msg, "intercepted"):
		return KindNotClickable
	case strings.Contains(msg, "Navigation"):
		return KindNavigation
	case raw.DeclaredKind == KindNameAssert || strings.Contains(msg, "expect"):
		return KindAssertion
	default:
		return KindUnknown
	}
}

// timeoutNotes refines a timeout by message content. Notes never change the kind.
func timeoutNotes(msg string) []string {
	var notes []string
	if strings.Contains(msg, "waiting for locator") {
		notes = append(notes, noteLocator)
	}
	if strings.Contains(msg, "navigation") {
		notes = append(notes, noteNavigation)
	}
	if strings.Contains(msg, "waiting for selector") {
		notes = append(notes, noteSelector)
	}

	return notes
}
