package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types appended by the request paths.
const (
	TypeContentRegistered = "content.registered"
	TypeGradeRecorded     = "grade.recorded"
)

type Event struct {
	Offset    int64
	SiteID    string
	Type      string
	Key       string // event uuid
	DataJSON  string
	CreatedAt int64
}

type Repo struct {
	db     *sql.DB
	siteID string
}

func NewRepo(db *sql.DB, siteID string) *Repo {
	if siteID == "" {
		siteID = "local"
	}
	return &Repo{db: db, siteID: siteID}
}

// Append records an event. Failures are the caller's to ignore: auditing
// never gates the request path.
func (r *Repo) Append(ctx context.Context, typ string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		r.siteID, typ, uuid.NewString(), string(buf), time.Now().Unix())
	return err
}
