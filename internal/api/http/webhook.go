package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mind-engage/h5p-bridge/internal/audit"
	"github.com/mind-engage/h5p-bridge/internal/grade"
)

// Wire shape of an H5P score delivery. Everything below contentId is
// optional; a payload with no statement at all is a bare completion signal.
//
//	{
//	  "contentId": "123",
//	  "userId": "user-1",
//	  "statement": {
//	    "verb": { "id": "http://adlnet.gov/expapi/verbs/completed" },
//	    "result": { "score": { "raw": 8, "max": 10 }, "completion": true }
//	  }
//	}
type webhookPayload struct {
	ContentID string         `json:"contentId"`
	UserID    string         `json:"userId"`
	Statement *xapiStatement `json:"statement"`
}

type xapiStatement struct {
	Verb   *xapiVerb   `json:"verb"`
	Result *xapiResult `json:"result"`
}

type xapiVerb struct {
	ID string `json:"id"`
}

type xapiResult struct {
	Score      *xapiScore `json:"score"`
	Completion *bool      `json:"completion"`
	Success    *bool      `json:"success"`
}

type xapiScore struct {
	Raw *float64 `json:"raw"`
	Max *float64 `json:"max"`
}

// event flattens the nested optional sections into a grade.Event. Absent
// sections stay nil; the grade store applies the documented defaults.
func (p webhookPayload) event() grade.Event {
	ev := grade.Event{
		ExternalContentID: p.ContentID,
		UserID:            p.UserID,
	}
	if p.Statement == nil {
		return ev
	}
	if p.Statement.Verb != nil {
		ev.VerbURI = p.Statement.Verb.ID
	}
	if res := p.Statement.Result; res != nil {
		ev.Completed = res.Completion
		if res.Score != nil {
			ev.RawScore = res.Score.Raw
			ev.MaxScore = res.Score.Max
		}
	}
	return ev
}

// WebhookHandler ingests xAPI score notifications from the H5P server.
// One grade row is appended per successful call; rejected deliveries write
// nothing. The insert completes before the 200 is sent, so the sender can
// treat the ack as a durable-write confirmation.
func WebhookHandler(store grade.Store, auditLog *audit.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.ContentID == "" {
			jsonError(w, http.StatusBadRequest, "Invalid payload")
			return
		}

		rec, err := store.Record(r.Context(), p.event())
		if err != nil {
			if errors.Is(err, grade.ErrUnknownContent) {
				jsonError(w, http.StatusNotFound, "Content not found")
				return
			}
			log.Printf("webhook: record grade: %v", err)
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if auditLog != nil {
			if err := auditLog.Append(r.Context(), audit.TypeGradeRecorded, rec); err != nil {
				log.Printf("webhook: audit append: %v", err)
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "saved",
			"contentId": p.ContentID,
			"score":     grade.Percentage(rec),
		})
	}
}
