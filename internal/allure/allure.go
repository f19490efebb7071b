package allure

const StageFinished = "finished"

const (
	StatusPass   = "passed"
	StatusFail   = "failed"
	StatusSkip   = "skipped"
	StatusBroken = "broken"
)

const (
	LabelFeature   = "feature"
	LabelStory     = "story"
	LabelSuite     = "suite"
	LabelTag       = "tag"
	LabelHost      = "host"
	LabelFramework = "framework"
	LabelLanguage  = "language"
)

const MimePNG = "image/png"

type Test struct {
	UUID          string         `json:"uuid"`
	TestCaseID    string         `json:"testCaseId"`
	HistoryID     string         `json:"historyId"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Status        string         `json:"status"`
	StatusDetails *StatusDetails `json:"statusDetails,omitempty"`
	Stage         string         `json:"stage"`
	Steps         []Step         `json:"steps"`
	Start         int64          `json:"start"`
	Stop          int64          `json:"stop"`
	FullName      string         `json:"fullName"`
	Parameters    []Parameter    `json:"parameters"`
	Labels        []Label        `json:"labels"`
	Attachments   []Attachment   `json:"attachments"`
}

// Failed reports whether the test should fail a run.
func (t Test) Failed() bool {
	return t.Status == StatusFail || t.Status == StatusBroken
}

type Step struct {
	Name          string         `json:"name"`
	Status        string         `json:"status"`
	StatusDetails *StatusDetails `json:"statusDetails,omitempty"`
	Stage         string         `json:"stage"`
	Steps         []Step         `json:"steps"`
	Attachments   []Attachment   `json:"attachments"`
	Parameters    []Parameter    `json:"parameters"`
	Start         int64          `json:"start"`
	Stop          int64          `json:"stop"`
}

type StatusDetails struct {
	Message string `json:"message,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Attachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}
