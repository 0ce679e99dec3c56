package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/h5p-bridge/internal/content"
	"github.com/mind-engage/h5p-bridge/internal/grade"
)

func ListContentHandler(reg content.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := reg.List(r.Context())
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "db error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetContentHandler(reg content.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := contentID(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "bad content id")
			return
		}
		rec, err := reg.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				jsonError(w, http.StatusNotFound, "Content not found")
				return
			}
			jsonError(w, http.StatusInternalServerError, "db error")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// DeleteContentHandler removes a content row; grade rows referencing it go
// with it (FK cascade). Admin-only, mounted behind JWTMiddleware.
func DeleteContentHandler(reg content.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := contentID(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "bad content id")
			return
		}
		if err := reg.Delete(r.Context(), id); err != nil {
			if errors.Is(err, content.ErrNotFound) {
				jsonError(w, http.StatusNotFound, "Content not found")
				return
			}
			jsonError(w, http.StatusInternalServerError, "db error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

type gradeView struct {
	grade.Record
	Percentage float64 `json:"percentage"`
}

func ContentGradesHandler(reg content.Registry, store grade.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := contentID(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "bad content id")
			return
		}
		rec, err := reg.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				jsonError(w, http.StatusNotFound, "Content not found")
				return
			}
			jsonError(w, http.StatusInternalServerError, "db error")
			return
		}
		rows, err := store.ForContent(r.Context(), rec.LocalID)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "db error")
			return
		}
		out := make([]gradeView, 0, len(rows))
		for _, g := range rows {
			out = append(out, gradeView{Record: g, Percentage: grade.Percentage(g)})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"content": rec,
			"grades":  out,
		})
	}
}

func contentID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "contentID"), 10, 64)
}
