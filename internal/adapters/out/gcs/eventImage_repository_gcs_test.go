package gcs

import "testing"

func TestEventImagePublicURL(t *testing.T) {
	r := NewEventImageRepositoryGCS(nil, "devevent-images")

	got := r.PublicURL("/DevEvent/react-summit/abc-my banner.png")
	want := "https://storage.googleapis.com/devevent-images/DevEvent/react-summit/abc-my%20banner.png"
	if got != want {
		t.Fatalf("PublicURL = %q, want %q", got, want)
	}

	r.PublicBaseURL = "https://cdn.example.com/"
	if got := r.PublicURL("a/b.png"); got != "https://cdn.example.com/devevent-images/a/b.png" {
		t.Fatalf("PublicURL with base = %q", got)
	}
}
