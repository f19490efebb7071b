package correlate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cposada23/BDDPlaywrightFramework/internal/allure"
	"github.com/cposada23/BDDPlaywrightFramework/internal/cucumber"
	"github.com/cposada23/BDDPlaywrightFramework/internal/exporter"
	"github.com/cposada23/BDDPlaywrightFramework/internal/slice"
)

const (
	frameworkName = "godog"
	languageName  = "golang"
	failureStep   = "failure"
)

// Report is the unified report: one Allure result per scenario and the
// screenshots those results reference.
type Report struct {
	Tests       []allure.Test
	Attachments []exporter.Attachment
}

// Failed reports whether any scenario failed.
func (r Report) Failed() bool {
	_, ok := slice.Find(r.Tests, allure.Test.Failed)
	return ok
}

type Option func(options *Options)

type Options struct {
	allSteps     bool
	allureLabels []allure.Label
	matcher      Matcher
	now          func() time.Time
	newID        func() string
	host         string
	logger       *slog.Logger
}

// WithAllSteps looks for screenshots of every step, not only failed ones. Use
// it when the run captured every step.
func WithAllSteps() Option {
	return func(o *Options) {
		o.allSteps = true
	}
}

func WithAllureLabels(labels ...allure.Label) Option {
	return func(o *Options) {
		o.allureLabels = labels
	}
}

func WithMatcher(m Matcher) Option {
	return func(o *Options) {
		o.matcher = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.now = now
	}
}

func WithIDSource(newID func() string) Option {
	return func(o *Options) {
		o.newID = newID
	}
}

func WithHost(host string) Option {
	return func(o *Options) {
		o.host = host
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

type Correlator struct {
	opts Options
}

func New(opts ...Option) *Correlator {
	host, _ := os.Hostname()

	c := Correlator{
		opts: Options{
			matcher: Match,
			now:     time.Now,
			newID:   uuid.NewString,
			host:    host,
			logger:  slog.Default(),
		},
	}

	for _, o := range opts {
		o(&c.opts)
	}

	return &c
}

// Correlate joins the cucumber report with the screenshot candidates. Steps
// without a matching screenshot are left without an attachment.
func (c *Correlator) Correlate(ctx context.Context, features []cucumber.Feature, candidates []Candidate) (Report, error) {
	var report Report

	var total time.Duration
	for _, feature := range features {
		for _, element := range feature.Elements {
			total += element.Duration()
		}
	}

	// The report only carries durations; the timeline ends now.
	cursor := c.opts.now().Add(-total)

	hasher := newHasher()

	var attachments [][]exporter.Attachment

	for _, feature := range features {
		for _, element := range feature.Elements {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}

			if element.IsBackground() {
				continue
			}

			test, testAttachments := c.convert(feature, element, candidates, cursor)
			cursor = cursor.Add(element.Duration())

			testCaseID := hasher([]byte(test.FullName))
			test.TestCaseID = hex.EncodeToString(testCaseID)
			test.HistoryID = hex.EncodeToString(hasher(testCaseID))

			report.Tests = append(report.Tests, test)
			attachments = append(attachments, testAttachments)
		}
	}

	report.Attachments = slice.Flat(attachments)

	c.opts.logger.Info(
		"report correlated",
		"scenarios", len(report.Tests),
		"screenshots", len(report.Attachments),
		"candidates", len(candidates),
	)

	return report, nil
}

func (c *Correlator) convert(
	feature cucumber.Feature, element cucumber.Element, candidates []Candidate, start time.Time,
) (allure.Test, []exporter.Attachment) {
	status := convertStatus(element.Status())

	test := allure.Test{
		UUID:        c.opts.newID(),
		Name:        element.Name,
		FullName:    fmt.Sprintf("%s: %s", feature.Name, element.Name),
		Description: strings.TrimSpace(element.Description),
		Status:      status,
		Stage:       allure.StageFinished,
		Start:       start.UnixMilli(),
		Stop:        start.Add(element.Duration()).UnixMilli(),
		Steps:       make([]allure.Step, 0, len(element.Steps)),
		Labels:      c.labels(feature, element),
		Parameters:  make([]allure.Parameter, 0),
		Attachments: make([]allure.Attachment, 0),
	}

	if failed, ok := element.FirstFailure(); ok {
		test.StatusDetails = statusDetails(failed.Result.ErrorMessage)
	}

	var attachments []exporter.Attachment

	cursor := start
	for _, cukeStep := range element.Steps {
		step := allure.Step{
			Name:        cukeStep.Title(),
			Status:      convertStatus(cukeStep.Result.Status),
			Stage:       allure.StageFinished,
			Start:       cursor.UnixMilli(),
			Stop:        cursor.Add(cukeStep.Duration()).UnixMilli(),
			Steps:       make([]allure.Step, 0),
			Attachments: make([]allure.Attachment, 0),
			Parameters:  make([]allure.Parameter, 0),
		}
		cursor = cursor.Add(cukeStep.Duration())

		if cukeStep.Failed() {
			step.StatusDetails = statusDetails(cukeStep.Result.ErrorMessage)
		}

		if c.opts.allSteps || cukeStep.Failed() {
			if match, ok := c.opts.matcher(candidates, element.Name, cukeStep.Name); ok {
				attachment := newAttachment(match, c.opts.newID())
				step.Attachments = append(step.Attachments, attachment.ref)
				attachments = append(attachments, attachment.file)
			} else {
				c.opts.logger.Debug("no screenshot for step", "scenario", element.Name, "step", cukeStep.Name)
			}
		}

		test.Steps = append(test.Steps, step)
	}

	if test.Failed() && len(attachments) == 0 {
		if match, ok := c.opts.matcher(candidates, element.Name, failureStep); ok {
			attachment := newAttachment(match, c.opts.newID())
			test.Attachments = append(test.Attachments, attachment.ref)
			attachments = append(attachments, attachment.file)
		}
	}

	return test, attachments
}

func (c *Correlator) labels(feature cucumber.Feature, element cucumber.Element) []allure.Label {
	_, userSuite := slice.Find(
		c.opts.allureLabels, func(l allure.Label) bool {
			return l.Name == allure.LabelSuite
		},
	)

	labels := []allure.Label{
		{Name: allure.LabelFeature, Value: feature.Name},
		{Name: allure.LabelStory, Value: element.Name},
	}

	if !userSuite {
		labels = append(labels, allure.Label{Name: allure.LabelSuite, Value: feature.Name})
	}

	labels = append(
		labels,
		allure.Label{Name: allure.LabelFramework, Value: frameworkName},
		allure.Label{Name: allure.LabelLanguage, Value: languageName},
	)

	if c.opts.host != "" {
		labels = append(labels, allure.Label{Name: allure.LabelHost, Value: c.opts.host})
	}

	seen := make(map[string]struct{})
	for _, tag := range append(feature.TagNames(), element.TagNames()...) {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		labels = append(labels, allure.Label{Name: allure.LabelTag, Value: tag})
	}

	return append(labels, c.opts.allureLabels...)
}

type pendingAttachment struct {
	ref  allure.Attachment
	file exporter.Attachment
}

func newAttachment(match Candidate, id string) pendingAttachment {
	name := filepath.Base(match.Path)
	source := fmt.Sprintf("%s-attachment%s", id, strings.ToLower(filepath.Ext(name)))

	return pendingAttachment{
		ref: allure.Attachment{
			Name:   name,
			Source: source,
			Type:   mimeOf(name),
		},
		file: exporter.Attachment{
			Name:   name,
			Mime:   mimeOf(name),
			Source: source,
			Path:   match.Path,
		},
	}
}

func mimeOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return allure.MimePNG
	}
}

// statusDetails keeps the first line of the error as the message and the whole
// text as the trace.
func statusDetails(errMessage string) *allure.StatusDetails {
	errMessage = strings.TrimSpace(errMessage)
	if errMessage == "" {
		return nil
	}

	message, _, _ := strings.Cut(errMessage, "\n")

	return &allure.StatusDetails{
		Message: strings.TrimSpace(message),
		Trace:   errMessage,
	}
}

func convertStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case cucumber.StatusPassed:
		return allure.StatusPass
	case cucumber.StatusFailed, cucumber.StatusAmbiguous:
		return allure.StatusFail
	case cucumber.StatusSkipped, cucumber.StatusUndefined, cucumber.StatusPending:
		return allure.StatusSkip
	default:
		return allure.StatusBroken
	}
}

func newHasher() func(b []byte) []byte {
	hashFn := md5.New()

	return func(b []byte) []byte {
		hashFn.Reset()
		hashFn.Write(b)

		return hashFn.Sum(nil)
	}
}
