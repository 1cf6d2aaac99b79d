// internal/domain/event/entity.go
package event

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Mode: 'online' | 'offline' | 'hybrid'
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
	ModeHybrid  Mode = "hybrid"
)

func IsValidMode(m Mode) bool {
	switch m {
	case ModeOnline, ModeOffline, ModeHybrid:
		return true
	default:
		return false
	}
}

// ParseMode accepts any casing ("Online", " HYBRID ").
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidMode(m) {
		return "", ErrInvalidMode
	}
	return m, nil
}

// Event is one listed event.
//
// - Slug: URL key derived from Title, unique per store
// - Image: public URL of the uploaded banner, ImageObjectPath is its storage key
// - Date: YYYY-MM-DD, Time: HH:MM (24h)
type Event struct {
	ID              string
	Title           string
	Slug            string
	Description     string
	Overview        string
	Image           string
	ImageObjectPath string
	Venue           string
	Location        string
	Date            string
	Time            string
	Mode            Mode
	Audience        string
	Agenda          []string
	Organizer       string
	Tags            []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Errors
var (
	ErrInvalidID          = errors.New("event: invalid id")
	ErrInvalidTitle       = errors.New("event: invalid title")
	ErrInvalidSlug        = errors.New("event: invalid slug")
	ErrInvalidDescription = errors.New("event: invalid description")
	ErrInvalidOverview    = errors.New("event: invalid overview")
	ErrInvalidImage       = errors.New("event: invalid image")
	ErrInvalidVenue       = errors.New("event: invalid venue")
	ErrInvalidLocation    = errors.New("event: invalid location")
	ErrInvalidDate        = errors.New("event: invalid date")
	ErrInvalidTime        = errors.New("event: invalid time")
	ErrInvalidMode        = errors.New("event: invalid mode (online|offline|hybrid)")
	ErrInvalidAudience    = errors.New("event: invalid audience")
	ErrInvalidAgenda      = errors.New("event: agenda must have at least one item")
	ErrInvalidOrganizer   = errors.New("event: invalid organizer")
	ErrInvalidTags        = errors.New("event: tags must have at least one item")
	ErrInvalidCreatedAt   = errors.New("event: invalid createdAt")
)

// Policy
var (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MaxOverviewLength    = 2000
	MaxListItems         = 50
)

// Fields is the caller-supplied part of an Event (everything except ids and timestamps).
type Fields struct {
	Title           string
	Description     string
	Overview        string
	Image           string
	ImageObjectPath string
	Venue           string
	Location        string
	Date            string
	Time            string
	Mode            string
	Audience        string
	Agenda          []string
	Organizer       string
	Tags            []string
}

// New builds a validated Event. Date and Time are re-rendered in canonical form.
func New(id, slug string, f Fields, createdAt time.Time) (Event, error) {
	mode, err := ParseMode(f.Mode)
	if err != nil {
		return Event{}, err
	}
	date, err := NormalizeDate(f.Date)
	if err != nil {
		return Event{}, err
	}
	clock, err := NormalizeTime(f.Time)
	if err != nil {
		return Event{}, err
	}

	e := Event{
		ID:              strings.TrimSpace(id),
		Title:           strings.TrimSpace(f.Title),
		Slug:            strings.TrimSpace(slug),
		Description:     strings.TrimSpace(f.Description),
		Overview:        strings.TrimSpace(f.Overview),
		Image:           strings.TrimSpace(f.Image),
		ImageObjectPath: strings.TrimSpace(f.ImageObjectPath),
		Venue:           strings.TrimSpace(f.Venue),
		Location:        strings.TrimSpace(f.Location),
		Date:            date,
		Time:            clock,
		Mode:            mode,
		Audience:        strings.TrimSpace(f.Audience),
		Agenda:          trimItems(f.Agenda),
		Organizer:       strings.TrimSpace(f.Organizer),
		Tags:            trimItems(f.Tags),
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       createdAt.UTC(),
	}

	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Validate checks required fields and policy limits. ID may be empty (assigned by the store).
func (e Event) Validate() error {
	if e.Title == "" || utf8.RuneCountInString(e.Title) > MaxTitleLength {
		return ErrInvalidTitle
	}
	if !IsSlug(e.Slug) {
		return ErrInvalidSlug
	}
	if e.Description == "" || utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return ErrInvalidDescription
	}
	if e.Overview == "" || utf8.RuneCountInString(e.Overview) > MaxOverviewLength {
		return ErrInvalidOverview
	}
	if e.Image == "" {
		return ErrInvalidImage
	}
	if e.Venue == "" {
		return ErrInvalidVenue
	}
	if e.Location == "" {
		return ErrInvalidLocation
	}
	if e.Date == "" {
		return ErrInvalidDate
	}
	if e.Time == "" {
		return ErrInvalidTime
	}
	if !IsValidMode(e.Mode) {
		return ErrInvalidMode
	}
	if e.Audience == "" {
		return ErrInvalidAudience
	}
	if len(e.Agenda) == 0 || len(e.Agenda) > MaxListItems {
		return ErrInvalidAgenda
	}
	if e.Organizer == "" {
		return ErrInvalidOrganizer
	}
	if len(e.Tags) == 0 || len(e.Tags) > MaxListItems {
		return ErrInvalidTags
	}
	if e.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}

// SharesTag reports whether the two events have at least one tag in common.
func (e Event) SharesTag(other Event) bool {
	if len(e.Tags) == 0 || len(other.Tags) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(e.Tags))
	for _, t := range e.Tags {
		set[strings.TrimSpace(t)] = struct{}{}
	}
	for _, t := range other.Tags {
		if _, ok := set[strings.TrimSpace(t)]; ok {
			return true
		}
	}
	return false
}

// HasTag is an exact (trimmed) tag match.
func (e Event) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, t := range e.Tags {
		if strings.TrimSpace(t) == tag {
			return true
		}
	}
	return false
}

// ==============================
// Date / Time
// ==============================

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// NormalizeDate parses common date inputs and renders them as YYYY-MM-DD.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidDate
	}
	layouts := []string{
		DateLayout,
		time.RFC3339,
		time.RFC3339Nano,
		"2006/01/02",
		"January 2, 2006",
		"Jan 2, 2006",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// NormalizeTime parses "HH:MM", "HH:MM:SS" or "h:MM AM/PM" and renders HH:MM.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidTime
	}
	layouts := []string{
		TimeLayout,
		"15:04:05",
		"3:04 PM",
		"3:04PM",
		"03:04 PM",
		"3:04 pm",
		"3:04pm",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

func trimItems(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if v := strings.TrimSpace(s); v != "" {
			out = append(out, v)
		}
	}
	return out
}
