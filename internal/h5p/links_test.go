package h5p_test

import (
	"testing"

	"github.com/mind-engage/h5p-bridge/internal/h5p"
)

func TestLinks(t *testing.T) {
	l := h5p.NewLinks("http://localhost:3000/", "http://localhost:5000/")

	if got := l.CallbackURL(); got != "http://localhost:5000/callback" {
		t.Fatalf("callback: %s", got)
	}
	if got := l.NewURL(); got != "http://localhost:3000/new?returnUrl=http%3A%2F%2Flocalhost%3A5000%2Fcallback" {
		t.Fatalf("new: %s", got)
	}
	if got := l.EditURL("abc123"); got != "http://localhost:3000/edit/abc123?returnUrl=http%3A%2F%2Flocalhost%3A5000%2Fcallback" {
		t.Fatalf("edit: %s", got)
	}
	if got := l.PlayURL("abc123", "u 1"); got != "http://localhost:3000/play/abc123?userId=u+1" {
		t.Fatalf("play: %s", got)
	}
	if got := l.PlayURL("abc123", ""); got != "http://localhost:3000/play/abc123" {
		t.Fatalf("play without user: %s", got)
	}
}
