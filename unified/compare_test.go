package unified

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_Ordering(t *testing.T) {
	one, two := FromRaw(1), FromRaw(2)

	assert.Equal(t, -1, one.Compare(two))
	assert.Equal(t, 1, two.Compare(one))
	assert.Equal(t, 0, one.Compare(one))
	assert.True(t, one.Less(two))
	assert.False(t, two.Less(one))
	assert.False(t, one.Less(one), "Less is strict")

	// <= and >= hold reflexively
	assert.LessOrEqual(t, one.Compare(one), 0)
	assert.GreaterOrEqual(t, two.Compare(two), 0)

	assert.Equal(t, -1, Empty.Compare(one), "Empty sorts first")
	assert.Equal(t, 1, FromRaw(math.MaxUint64).Compare(FromRaw(1<<63)), "ordering is unsigned")
}

func TestCompare_Sort(t *testing.T) {
	ids := []ID{FromRaw(5), FromRaw(math.MaxUint64), Empty, FromRaw(1 << 63), FromRaw(2)}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	want := []ID{Empty, FromRaw(2), FromRaw(5), FromRaw(1 << 63), FromRaw(math.MaxUint64)}
	assert.Equal(t, want, ids)

	// canonical strings sort the same way as values
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1].String(), ids[i].String())
	}
}

func TestCompareUint64(t *testing.T) {
	id := FromRaw(10)
	assert.Equal(t, -1, id.CompareUint64(11))
	assert.Equal(t, 0, id.CompareUint64(10))
	assert.Equal(t, 1, id.CompareUint64(9))
}

func TestCompareInt64_UsesSignedReinterpretation(t *testing.T) {
	top := FromRaw(math.MaxUint64) // -1 as int64
	assert.Equal(t, -1, top.CompareInt64(0))
	assert.Equal(t, 0, top.CompareInt64(-1))
	assert.Equal(t, 1, FromRaw(1).CompareInt64(-1))
}

func TestCompareString(t *testing.T) {
	r := require.New(t)
	one, two := FromRaw(1), FromRaw(2)

	got, err := one.CompareString(two.String())
	r.NoError(err)
	r.Equal(-1, got)

	got, err = two.CompareString(one.String())
	r.NoError(err)
	r.Equal(1, got)

	got, err = one.CompareString("")
	r.NoError(err)
	r.Equal(1, got)

	got, err = Empty.CompareString("  ")
	r.NoError(err)
	r.Equal(1, got, "every id sorts after a blank string")

	got, err = Empty.CompareString("0000000000000")
	r.NoError(err)
	r.Equal(0, got)

	_, err = one.CompareString("not-an-id")
	r.ErrorIs(err, ErrFormat, "ordering against a malformed string fails")
}

func TestEqual_CrossRepresentation(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.True(t, id.Equal(id))
		require.True(t, id.EqualString(id.String()))
		require.True(t, id.EqualUint64(id.Uint64()))
		require.True(t, id.EqualInt64(id.Int64()))
	}

	id := MustParse("AGQ8BJPM1IA7V")
	assert.False(t, id.EqualString("agq8bjpm1ia7v"))
	assert.False(t, id.EqualString("AGQ8BJPM1IA7"))
	assert.False(t, id.EqualString("garbage"), "malformed strings are unequal, not errors")
	assert.False(t, id.EqualUint64(id.Uint64()+1))
	assert.False(t, Empty.EqualString(""), "equality is against the canonical form")
	assert.True(t, Empty.EqualString("0000000000000"))
	assert.True(t, FromRaw(math.MaxUint64).EqualInt64(-1))
}

func TestID_IsComparableKey(t *testing.T) {
	m := map[ID]string{FromRaw(1): "one"}
	assert.Equal(t, "one", m[MustParse("0000000000001")])
}
