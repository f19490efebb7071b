package failure

import (
	"fmt"
	"strings"
)

const unknownIcon = "❌"

// Format renders the canonical multi-line diagnostic for rec. Blocks appear in
// a fixed order: step, kind, original message, context, notes, suggestions,
// stack trace. Empty optional blocks are omitted.
func Format(rec Record) string {
	icon := unknownIcon
	if p, ok := presentations[rec.Kind]; ok {
		icon = p.icon
	}

	var b strings.Builder

	fmt.Fprintf(&b, "❌ Step failed: %s\n", rec.StepName)
	fmt.Fprintf(&b, "%s %s\n", icon, rec.Label)
	fmt.Fprintf(&b, "Original error: %s\n", rec.OriginalMessage)

	if rec.Context != "" {
		fmt.Fprintf(&b, "📋 Context: %s\n", rec.Context)
	}

	for _, note := range rec.Notes {
		fmt.Fprintf(&b, "   → %s\n", note)
	}

	if len(rec.Suggestions) > 0 {
		b.WriteString("💡 Suggestions:\n")
		for _, s := range rec.Suggestions {
			fmt.Fprintf(&b, "   - %s\n", s)
		}
	}

	if rec.StackTrace != "" {
		fmt.Fprintf(&b, "Stack trace:\n%s\n", rec.StackTrace)
	}

	return strings.TrimSuffix(b.String(), "\n")
}
