package challenge

import "errors"

// DateLayout formats the creation/update date stored with each challenge.
const DateLayout = "2006-01-02"

// DocumentName is the single HTML document kept in every challenge directory.
const DocumentName = "index.html"

// ErrNotFound reports an unknown challenge id.
var ErrNotFound = errors.New("challenge not found")

// Challenge is one row of the metadata document.
type Challenge struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Date  string `json:"date"`
	Path  string `json:"path"`
}

// PublishRequest carries everything needed to create or overwrite a challenge.
type PublishRequest struct {
	ID    string
	Title string
	Desc  string
	HTML  []byte
}

// CreateChallengeRequest is the JSON body of POST /api/create_challenge.
type CreateChallengeRequest struct {
	ID          string `json:"id" validate:"required,max=128"`
	Title       string `json:"title" validate:"required,max=200"`
	Desc        string `json:"desc" validate:"required,max=2000"`
	HTMLContent string `json:"html_content" validate:"required"`
}
