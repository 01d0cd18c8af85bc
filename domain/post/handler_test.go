package post

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarksPageQueryOrdersBySaveTime(t *testing.T) {
	query, args := bookmarksPageQuery(7, 0, 10)

	assert.True(t, strings.HasSuffix(query, `ORDER BY bm.id DESC LIMIT $2`))
	assert.NotContains(t, query, "ORDER BY p.id")
	assert.Equal(t, []interface{}{int64(7), 11}, args)
}

func TestBookmarksPageQueryCursorsOnBookmarkID(t *testing.T) {
	query, args := bookmarksPageQuery(7, 42, 10)

	assert.Contains(t, query, `WHERE bm.id < $2`)
	assert.True(t, strings.HasSuffix(query, `ORDER BY bm.id DESC LIMIT $3`))
	assert.Equal(t, []interface{}{int64(7), int64(42), 11}, args)
}

func TestBookmarkPageCursor(t *testing.T) {
	// An old post (low post id) saved most recently (high bookmark id)
	// must lead the page, and the cursor must advance on the bookmark id.
	rows := []postRow{
		{ID: 3, BookmarkID: 90},
		{ID: 250, BookmarkID: 55},
		{ID: 120, BookmarkID: 12},
	}

	page, next := bookmarkPage(rows, 2)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].ID)
	require.NotNil(t, next)
	assert.Equal(t, int64(55), *next)

	page, next = bookmarkPage(rows, 3)
	assert.Len(t, page, 3)
	assert.Nil(t, next)
}
