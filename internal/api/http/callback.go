package http

import (
	"log"
	"net/http"

	"github.com/mind-engage/h5p-bridge/internal/audit"
	"github.com/mind-engage/h5p-bridge/internal/content"
)

// The editor opens in a popup; after a save it redirects here. This page
// refreshes the opener and closes itself.
const callbackPage = `<!DOCTYPE html>
<html>
<head><title>Saved</title></head>
<body>
    <p>Content saved! This window will close...</p>
    <script>
        if (window.opener) {
            window.opener.location.reload();
        }
        window.close();
    </script>
</body>
</html>
`

// CallbackHandler registers (or re-titles) content after an editor save.
// The redirect carries contentId and title as query parameters.
func CallbackHandler(reg content.Registry, auditLog *audit.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentID := r.URL.Query().Get("contentId")
		title := r.URL.Query().Get("title")
		if title == "" {
			title = "Untitled"
		}

		if contentID != "" {
			rec, err := reg.RegisterOrUpdate(r.Context(), contentID, title)
			if err != nil {
				log.Printf("callback: register content %q: %v", contentID, err)
				jsonError(w, http.StatusInternalServerError, "registration failed")
				return
			}
			if auditLog != nil {
				if err := auditLog.Append(r.Context(), audit.TypeContentRegistered, rec); err != nil {
					log.Printf("callback: audit append: %v", err)
				}
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(callbackPage))
	}
}
