package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telhawk-systems/flowsearch/internal/model"
)

func TestRender_Empty(t *testing.T) {
	v := Render(&model.SearchResultSet{SearchTime: 0.004}, NewPager(0))

	assert.True(t, v.Empty)
	assert.Equal(t, EmptyMessage, v.Header)
	assert.Equal(t, "Search completed in 0.004 seconds", v.Footer)
	assert.Empty(t, v.Lines)
	assert.Nil(t, v.Window)

	assert.True(t, Render(nil, NewPager(0)).Empty)
}

func TestRender_Pages(t *testing.T) {
	set := &model.SearchResultSet{Events: makeEvents(45), TotalCount: 45, SearchTime: 0.25}
	pager := NewPager(len(set.Events))

	v := Render(set, pager)
	assert.False(t, v.Empty)
	assert.Equal(t, "Found 45 events • Search Time: 0.25s", v.Header)
	require.Len(t, v.Lines, 20)
	assert.Equal(t, 1, v.Lines[0].Index)
	assert.Equal(t, []int{1, 2, 3}, v.Window)
	assert.False(t, v.CanPrev)
	assert.True(t, v.CanNext)

	pager.Last()
	v = Render(set, pager)
	assert.Len(t, v.Lines, 5)
	assert.Equal(t, int64(41), v.Lines[0].Event.SerialNo)
	assert.True(t, v.CanPrev)
	assert.False(t, v.CanNext)
}

func TestRender_SinglePageHasNoWindow(t *testing.T) {
	set := &model.SearchResultSet{Events: makeEvents(1), TotalCount: 1, SearchTime: 1}
	v := Render(set, NewPager(1))

	assert.Equal(t, "Found 1 event • Search Time: 1s", v.Header)
	assert.Len(t, v.Lines, 1)
	assert.Nil(t, v.Window)
}
