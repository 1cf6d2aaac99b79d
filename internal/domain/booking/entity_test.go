package booking

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	b, err := New("", " ev1 ", "meetup", "Jane Doe <Jane.Doe@Example.com>", time.Now())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.Email != "jane.doe@example.com" || b.EventID != "ev1" {
		t.Fatalf("unexpected booking %+v", b)
	}

	cases := []struct {
		eventID, email string
		at             time.Time
		want           error
	}{
		{eventID: "", email: "a@b.io", at: time.Now(), want: ErrInvalidEventID},
		{eventID: "e", email: "", at: time.Now(), want: ErrInvalidEmail},
		{eventID: "e", email: "not-an-email", at: time.Now(), want: ErrInvalidEmail},
		{eventID: "e", email: "user@localhost", at: time.Now(), want: ErrInvalidEmail},
		{eventID: "e", email: "a@b.io", want: ErrInvalidCreatedAt},
	}
	for _, tc := range cases {
		if _, err := New("", tc.eventID, "", tc.email, tc.at); !errors.Is(err, tc.want) {
			t.Fatalf("New(%q,%q) err = %v, want %v", tc.eventID, tc.email, err, tc.want)
		}
	}
}
