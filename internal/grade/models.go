package grade

import (
	"errors"
	"strings"
)

// Record is one grade event. Rows are append-only: the store never updates
// or deletes them, and the "current" grade for a (content, user) pair is
// the newest row.
type Record struct {
	ID        int64   `json:"id"`
	ContentID int64   `json:"content_id"`
	UserID    string  `json:"user_id"`
	RawScore  float64 `json:"raw_score"`
	MaxScore  float64 `json:"max_score"`
	Completed bool    `json:"completed"`
	Verb      string  `json:"verb"`
	CreatedAt int64   `json:"created_at"` // unix seconds
}

// Event is a webhook delivery after JSON decoding, before defaulting.
// Pointer fields distinguish "absent" from zero values; the store applies
// the documented defaults exactly once.
type Event struct {
	ExternalContentID string
	UserID            string
	RawScore          *float64
	MaxScore          *float64
	Completed         *bool
	VerbURI           string
}

var ErrUnknownContent = errors.New("unknown content")

const AnonymousUser = "anonymous"

const (
	defaultMaxScore = 100
	defaultRawScore = 0
)

// Percentage returns raw/max, or 0 when max is not positive.
func Percentage(r Record) float64 {
	if r.MaxScore > 0 {
		return r.RawScore / r.MaxScore
	}
	return 0
}

// VerbToken reduces an xAPI verb URI to its last path segment, e.g.
// "http://adlnet.gov/expapi/verbs/completed" -> "completed".
func VerbToken(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
