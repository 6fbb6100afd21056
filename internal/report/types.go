package report

import "errors"

// TimestampLayout formats the server-assigned submission time.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	filenameTimeLayout = "20060102_150405"
	fileExt            = ".json"
	fallbackName       = "anonimo"
	nameSeparator      = "_"
)

// ErrNotFound reports an unknown report filename.
var ErrNotFound = errors.New("report not found")

// Step is one question/answer/reasoning triple of a submission.
type Step struct {
	QuestionID string `json:"question_id" validate:"max=200"`
	Answer     string `json:"answer" validate:"max=2000"`
	Reasoning  string `json:"reasoning" validate:"max=5000"`
}

// Submission is what gets persisted, one file per submission.
type Submission struct {
	ChallengeID string `json:"challenge_id"`
	StudentName string `json:"student_name"`
	Steps       []Step `json:"steps"`
	Timestamp   string `json:"timestamp"`
}

// Report is a stored submission annotated with the file it was read from.
type Report struct {
	Submission
	Filename string `json:"filename"`
}

// SubmitRequest is the JSON body of POST /api/submit. Only the dynamic step list is accepted.
type SubmitRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required,max=128"`
	StudentName string `json:"student_name" validate:"required,max=200"`
	Steps       []Step `json:"steps" validate:"required,max=50,dive"`
}
