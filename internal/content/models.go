package content

import "errors"

// Record maps an id issued by the external H5P server to a local row.
type Record struct {
	LocalID    int64  `json:"id"`
	ExternalID string `json:"h5p_id"`
	Title      string `json:"title"`
	CreatedAt  int64  `json:"created_at"` // unix seconds
}

var ErrNotFound = errors.New("content not found")
