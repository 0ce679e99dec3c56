package http

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/h5p-bridge/internal/content"
	"github.com/mind-engage/h5p-bridge/internal/grade"
	"github.com/mind-engage/h5p-bridge/internal/h5p"
)

// Minimal demo pages mirroring the content-library UI the editor popup
// flow expects: an index with play/edit/grades links, a player iframe page
// and a grade table. Styling is intentionally bare.

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>H5P Content Library</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        .content-list { list-style: none; padding: 0; }
        .content-item { padding: 15px; margin: 10px 0; background: #f5f5f5; border-radius: 8px; display: flex; justify-content: space-between; align-items: center; }
        .actions a { margin-left: 10px; padding: 8px 16px; background: #007bff; color: white; text-decoration: none; border-radius: 4px; }
        .empty { color: #666; font-style: italic; }
    </style>
</head>
<body>
    <h1>H5P Content Library</h1>
    <a href="/new" onclick="openEditor(); return false;">+ Create New Content</a>
    <ul class="content-list">
    {{range .Items}}
        <li class="content-item">
            <span>{{.Title}}</span>
            <span class="actions">
                <a href="/play/{{.ExternalID}}">Play</a>
                <a href="/edit/{{.ExternalID}}" onclick="openEditor('{{.ExternalID}}'); return false;">Edit</a>
                <a href="/grades/{{.LocalID}}">Grades</a>
            </span>
        </li>
    {{else}}
        <li class="empty">No content yet. Create your first H5P activity!</li>
    {{end}}
    </ul>
    <script>
        function openEditor(contentId) {
            const url = contentId ? '/edit/' + contentId : '/new';
            window.open(url, 'h5p-editor', 'width=1200,height=800');
        }
        window.addEventListener('focus', function() {
            setTimeout(function() { location.reload(); }, 500);
        });
    </script>
</body>
</html>
`))

var playTmpl = template.Must(template.New("play").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Play H5P Content</title>
    <style>
        body { font-family: system-ui, sans-serif; margin: 0; padding: 20px; }
        iframe { width: 100%; height: 600px; border: 1px solid #ddd; border-radius: 8px; }
    </style>
</head>
<body>
    <a href="/">&larr; Back to Library</a>
    <h1>H5P Player</h1>
    <iframe src="{{.PlayerURL}}"></iframe>
</body>
</html>
`))

var gradesTmpl = template.Must(template.New("grades").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Grades - {{.Content.Title}}</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        .empty { color: #666; font-style: italic; }
    </style>
</head>
<body>
    <a href="/">&larr; Back to Library</a>
    <h1>Grades: {{.Content.Title}}</h1>
    {{if .Grades}}
    <table>
        <tr><th>User</th><th>Score</th><th>Verb</th><th>Completed</th></tr>
        {{range .Grades}}
        <tr>
            <td>{{.UserID}}</td>
            <td>{{printf "%.1f" .RawScore}}/{{printf "%.1f" .MaxScore}} ({{printf "%.0f" .Pct}}%)</td>
            <td>{{.Verb}}</td>
            <td>{{.Completed}}</td>
        </tr>
        {{end}}
    </table>
    {{else}}
    <p class="empty">No grades recorded yet.</p>
    {{end}}
</body>
</html>
`))

func IndexPageHandler(reg content.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := reg.List(r.Context())
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, map[string]any{"Items": items}); err != nil {
			log.Printf("index page: %v", err)
		}
	}
}

// NewContentHandler sends the browser to the external editor; the save
// redirects back to /callback.
func NewContentHandler(links h5p.Links) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, links.NewURL(), http.StatusFound)
	}
}

func EditContentHandler(links h5p.Links) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, links.EditURL(chi.URLParam(r, "h5pID")), http.StatusFound)
	}
}

func PlayPageHandler(links h5p.Links) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = "demo-user"
		}
		playerURL := links.PlayURL(chi.URLParam(r, "h5pID"), userID)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := playTmpl.Execute(w, map[string]any{"PlayerURL": playerURL}); err != nil {
			log.Printf("play page: %v", err)
		}
	}
}

func GradesPageHandler(reg content.Registry, store grade.Store) http.HandlerFunc {
	type row struct {
		grade.Record
		Pct float64
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := contentID(r)
		if err != nil {
			http.Error(w, "bad content id", http.StatusBadRequest)
			return
		}
		rec, err := reg.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				http.Error(w, "content not found", http.StatusNotFound)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		list, err := store.ForContent(r.Context(), rec.LocalID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		rows := make([]row, 0, len(list))
		for _, g := range list {
			rows = append(rows, row{Record: g, Pct: grade.Percentage(g) * 100})
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := gradesTmpl.Execute(w, map[string]any{"Content": rec, "Grades": rows}); err != nil {
			log.Printf("grades page: %v", err)
		}
	}
}
