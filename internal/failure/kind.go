package failure

type Kind int

const (
	KindUnknown Kind = iota
	KindTimeout
	KindElementNotFound
	KindStaleElement
	KindNotVisible
	KindDisabled
	KindNotClickable
	KindNavigation
	KindAssertion
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "Timeout"
	case KindElementNotFound:
		return "ElementNotFound"
	case KindStaleElement:
		return "StaleElement"
	case KindNotVisible:
		return "NotVisible"
	case KindDisabled:
		return "Disabled"
	case KindNotClickable:
		return "NotClickable"
	case KindNavigation:
		return "NavigationFailure"
	case KindAssertion:
		return "AssertionFailure"
	default:
		return "Unknown"
	}
}

// Transient reports whether an operation failing with this kind may succeed
// when attempted again against the same page.
func (k Kind) Transient() bool {
	return k == KindTimeout || k == KindStaleElement
}

type presentation struct {
	icon  string
	label string
}

var presentations = map[Kind]presentation{
	KindTimeout:         {icon: "⏱️", label: "Timeout error"},
	KindElementNotFound: {icon: "🔍", label: "Element not found"},
	KindStaleElement:    {icon: "🔄", label: "Element is no longer attached to the DOM"},
	KindNotVisible:      {icon: "👁️", label: "Element is not visible"},
	KindDisabled:        {icon: "🚫", label: "Element is disabled"},
	KindNotClickable:    {icon: "🖱️", label: "Element is not clickable"},
	KindNavigation:      {icon: "🧭", label: "Navigation error"},
	KindAssertion:       {icon: "❗", label: "Assertion failed"},
}

var suggestions = map[Kind][]string{
	KindTimeout: {
		"increase timeout if operation needs more time",
		"check if element selector is correct",
		"verify page is fully loaded",
	},
	KindNotVisible: {
		"check if element is hidden by CSS",
		"scroll element into view",
		"wait for animations to complete",
	},
}

// Suggestions returns the remediation hints for a kind, nil when it has none.
func Suggestions(k Kind) []string {
	hints, ok := suggestions[k]
	if !ok {
		return nil
	}

	out := make([]string, len(hints))
	copy(out, hints)

	return out
}
