// Package h5p builds URLs into the external H5P content server. This is
// the only coupling to that server: authoring, storage and playback all
// happen on its side; we just link to it and receive its callbacks.
package h5p

import (
	"net/url"
	"strings"
)

type Links struct {
	ServerURL string // e.g. http://localhost:3000
	AppURL    string // public URL of this bridge, for returnUrl/callbacks
}

func NewLinks(serverURL, appURL string) Links {
	return Links{
		ServerURL: strings.TrimSuffix(serverURL, "/"),
		AppURL:    strings.TrimSuffix(appURL, "/"),
	}
}

// CallbackURL is where the editor redirects after a save.
func (l Links) CallbackURL() string {
	return l.AppURL + "/callback"
}

// NewURL opens the editor on a fresh piece of content.
func (l Links) NewURL() string {
	return l.ServerURL + "/new?returnUrl=" + url.QueryEscape(l.CallbackURL())
}

// EditURL opens the editor on existing content.
func (l Links) EditURL(externalID string) string {
	return l.ServerURL + "/edit/" + url.PathEscape(externalID) +
		"?returnUrl=" + url.QueryEscape(l.CallbackURL())
}

// PlayURL embeds the player; the server reports scores for userID back to
// our webhook.
func (l Links) PlayURL(externalID, userID string) string {
	u := l.ServerURL + "/play/" + url.PathEscape(externalID)
	if userID != "" {
		u += "?userId=" + url.QueryEscape(userID)
	}
	return u
}
