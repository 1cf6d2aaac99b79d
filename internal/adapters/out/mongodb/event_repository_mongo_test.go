package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	evdom "devevent/internal/domain/event"
)

func TestBuildEventFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, buildEventFilter(evdom.Filter{}))

	hybrid := evdom.ModeHybrid
	got := buildEventFilter(evdom.Filter{SearchQuery: "next.js", Tag: " react ", Mode: &hybrid})
	assert.Equal(t, bson.M{
		"title": bson.M{"$regex": `next\.js`, "$options": "i"},
		"tags":  "react",
		"mode":  "hybrid",
	}, got)
}

func TestBuildEventSort(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}},
		buildEventSort(evdom.Sort{}))
	assert.Equal(t,
		bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}},
		buildEventSort(evdom.Sort{Column: evdom.SortByTitle, Order: evdom.SortAsc}))
	assert.Equal(t,
		bson.D{{Key: "date", Value: -1}, {Key: "time", Value: -1}, {Key: "_id", Value: 1}},
		buildEventSort(evdom.Sort{Column: evdom.SortByDate, Order: evdom.SortDesc}))
}

func TestEventModelRoundTrip(t *testing.T) {
	e := evdom.Event{ID: "e1", Slug: "go-days", Mode: evdom.ModeOnline}
	m := toEventModel(e)
	assert.Equal(t, []string{}, m.Tags)

	back := m.toDomain()
	assert.Equal(t, "go-days", back.Slug)
	assert.Equal(t, evdom.ModeOnline, back.Mode)
	assert.Equal(t, []string{}, back.Agenda)
}
