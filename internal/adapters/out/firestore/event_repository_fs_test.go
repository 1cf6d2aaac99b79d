package firestore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTags(t *testing.T) {
	assert.Empty(t, chunkTags(nil, maxArrayContainsAny))
	assert.Equal(t, [][]string{{"go", "cloud"}}, chunkTags([]string{" go ", "cloud", "go", ""}, maxArrayContainsAny))

	tags := make([]string, 0, 50)
	for i := 1; i <= 50; i++ {
		tags = append(tags, fmt.Sprintf("tag-%d", i))
	}
	chunks := chunkTags(tags, maxArrayContainsAny)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 30)
	assert.Len(t, chunks[1], 20)
	assert.Equal(t, "tag-31", chunks[1][0], "tags past the 30th are still queried")
	assert.Equal(t, "tag-50", chunks[1][19])
}
