package cucumber

import (
	"strings"
	"time"
)

const (
	StatusPassed    = "passed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
	StatusUndefined = "undefined"
	StatusPending   = "pending"
	StatusAmbiguous = "ambiguous"
)

// Feature is one entry of the cucumber JSON report written by godog.
type Feature struct {
	URI         string    `json:"uri"`
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Line        int       `json:"line"`
	Tags        []Tag     `json:"tags"`
	Elements    []Element `json:"elements"`
}

// Element is a scenario or background of a feature.
type Element struct {
	ID          string `json:"id"`
	Keyword     string `json:"keyword"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Line        int    `json:"line"`
	Type        string `json:"type"`
	Tags        []Tag  `json:"tags"`
	Steps       []Step `json:"steps"`
}

type Step struct {
	Keyword string `json:"keyword"`
	Name    string `json:"name"`
	Line    int    `json:"line"`
	Result  Result `json:"result"`
}

type Result struct {
	Status string `json:"status"`
	// Duration is in nanoseconds.
	Duration     int64  `json:"duration"`
	ErrorMessage string `json:"error_message"`
}

type Tag struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// Title is the step text as written in the feature file, keyword included.
func (s Step) Title() string {
	return strings.TrimSpace(s.Keyword + s.Name)
}

func (s Step) Failed() bool {
	return normStatus(s.Result.Status) == StatusFailed
}

func (s Step) Duration() time.Duration {
	if s.Result.Duration < 0 {
		return 0
	}

	return time.Duration(s.Result.Duration)
}

// IsBackground reports whether the element is a background section rather
// than a scenario.
func (e Element) IsBackground() bool {
	return strings.EqualFold(e.Type, "background")
}

// Status reduces step results to a scenario status: failed if any step
// failed, else skipped if any step did not run, else passed.
func (e Element) Status() string {
	var skipped bool
	for _, step := range e.Steps {
		switch normStatus(step.Result.Status) {
		case StatusFailed, StatusAmbiguous:
			return StatusFailed
		case StatusSkipped, StatusUndefined, StatusPending:
			skipped = true
		}
	}

	if skipped {
		return StatusSkipped
	}

	return StatusPassed
}

// Duration is the sum of the step durations.
func (e Element) Duration() time.Duration {
	var total time.Duration
	for _, step := range e.Steps {
		total += step.Duration()
	}

	return total
}

// FirstFailure returns the first failing step.
func (e Element) FirstFailure() (Step, bool) {
	for _, step := range e.Steps {
		if step.Failed() {
			return step, true
		}
	}

	return Step{}, false
}

// TagNames returns the tag names without the leading '@'.
func (e Element) TagNames() []string {
	return tagNames(e.Tags)
}

func (f Feature) TagNames() []string {
	return tagNames(f.Tags)
}

func tagNames(tags []Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		name := strings.TrimPrefix(strings.TrimSpace(tag.Name), "@")
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	return names
}

func normStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
