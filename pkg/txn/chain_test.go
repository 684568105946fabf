package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleAsOfOnEmptyChain(t *testing.T) {
	var chain versionChain

	_, ok := chain.visibleAsOf(100)
	assert.False(t, ok)
}

func TestVisibleAsOfPicksNewestAtOrBelow(t *testing.T) {
	var chain versionChain
	chain.append(&Version{CommitTs: 0, Value: []byte("v0")})
	chain.append(&Version{CommitTs: 2, Value: []byte("v2")})
	chain.append(&Version{CommitTs: 4, Value: []byte("v4")})

	for _, tc := range []struct {
		ts    uint64
		value string
	}{
		{0, "v0"},
		{1, "v0"},
		{2, "v2"},
		{3, "v2"},
		{4, "v4"},
		{9, "v4"},
	} {
		val, ok := chain.visibleAsOf(tc.ts)
		assert.True(t, ok)
		assert.Equal(t, []byte(tc.value), val)
	}
}

func TestVisibleAsOfMapsTombstoneToAbsent(t *testing.T) {
	var chain versionChain
	chain.append(&Version{CommitTs: 2, Value: []byte("v2")})
	chain.append(&Version{CommitTs: 5, Tombstone: true})

	val, ok := chain.visibleAsOf(4)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), val)

	_, ok = chain.visibleAsOf(5)
	assert.False(t, ok)
}

func TestNewestCommitTs(t *testing.T) {
	var chain versionChain

	_, ok := chain.newestCommitTs()
	assert.False(t, ok)

	chain.append(&Version{CommitTs: 3, Value: []byte("v3")})
	chain.append(&Version{CommitTs: 7, Value: []byte("v7")})

	ts, ok := chain.newestCommitTs()
	assert.True(t, ok)
	assert.Equal(t, uint64(7), ts)
}

func TestCompactKeepsNewestAtOrBelowCutoff(t *testing.T) {
	var chain versionChain
	chain.append(&Version{CommitTs: 0, Value: []byte("v0")})
	chain.append(&Version{CommitTs: 2, Value: []byte("v2")})
	chain.append(&Version{CommitTs: 4, Value: []byte("v4")})

	removed := chain.compact(3)
	assert.Equal(t, 1, removed)

	// v2 survives as the version a reader at ts=3 still needs.
	val, ok := chain.visibleAsOf(3)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), val)

	// v0 is gone.
	_, ok = chain.visibleAsOf(1)
	assert.False(t, ok)
}

func TestCompactWithNothingBelowCutoff(t *testing.T) {
	var chain versionChain
	chain.append(&Version{CommitTs: 5, Value: []byte("v5")})

	assert.Equal(t, 0, chain.compact(4))
	assert.Equal(t, 0, chain.compact(5))

	val, ok := chain.visibleAsOf(5)
	assert.True(t, ok)
	assert.Equal(t, []byte("v5"), val)
}
