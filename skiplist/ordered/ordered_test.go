package ordered

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakuto4838/OrderedSkipList.git/skiplist"
)

func TestOrderedListInterface(t *testing.T) {
	var _ skiplist.Analyable[int] = (*List[int])(nil)
	var _ skiplist.Nodelike[int] = (*node[int])(nil)
}

func collect[T any](sl *List[T]) []T {
	out := make([]T, 0, sl.Size())
	for v := range sl.Values() {
		out = append(out, v)
	}
	return out
}

func TestEmptyOnCreate(t *testing.T) {
	assert := assert.New(t)
	sl := New[int](42)

	assert.True(sl.Empty())
	assert.Equal(0, sl.Size())
	assert.Equal(sl.End(), sl.Begin())
	assert.False(sl.Begin().Valid())
}

func TestInsertAndFind(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	sl := New[int](42)

	it, inserted := sl.Insert(10)
	assert.True(inserted)
	require.True(it.Valid())
	v, err := it.Value()
	require.NoError(err)
	assert.Equal(10, v)
	assert.False(sl.Empty())
	assert.Equal(1, sl.Size())

	// 重複插入為 no-op，回傳既有位置
	it2, inserted := sl.Insert(10)
	assert.False(inserted)
	assert.Equal(it, it2)
	assert.Equal(1, sl.Size())

	assert.True(sl.Find(10).Valid())
	v, err = sl.Find(10).Value()
	require.NoError(err)
	assert.Equal(10, v)
	assert.Equal(1, sl.Count(10))
	assert.True(sl.Contains(10))

	assert.False(sl.Find(5).Valid())
	assert.Equal(0, sl.Count(5))
}

func TestErase(t *testing.T) {
	assert := assert.New(t)
	sl := New[int](42)

	sl.Insert(1)
	sl.Insert(2)
	sl.Insert(3)
	assert.Equal(3, sl.Size())

	assert.Equal(0, sl.Erase(5))
	assert.Equal(3, sl.Size())

	assert.Equal(1, sl.Erase(2))
	assert.Equal(2, sl.Size())
	assert.False(sl.Find(2).Valid())

	assert.Equal(1, sl.Erase(1))
	assert.Equal(1, sl.Erase(3))
	assert.True(sl.Empty())
}

func TestClearAndRoundTrip(t *testing.T) {
	assert := assert.New(t)
	sl := New[int](42)

	for i := 0; i < 100; i++ {
		sl.Insert(i)
	}
	assert.Equal(100, sl.Size())

	snapshot := sl.Clone()

	sl.Clear()
	assert.True(sl.Empty())
	assert.Equal(0, sl.Size())
	assert.Equal(sl.End(), sl.Begin())

	// 清空後重新插入同樣的元素，應重建出等價結構
	for i := 0; i < 100; i++ {
		sl.Insert(i)
	}
	assert.True(sl.Equal(snapshot))
}

func TestIteratorOrder(t *testing.T) {
	assert := assert.New(t)
	sl := New[int](42)

	data := []int{5, 3, 9, 1, 7, 4}
	for _, x := range data {
		sl.Insert(x)
	}

	want := slices.Clone(data)
	slices.Sort(want)

	got := make([]int, 0, sl.Size())
	for it := sl.Begin(); it.Valid(); it = it.Next() {
		v, err := it.Value()
		assert.NoError(err)
		got = append(got, v)
	}
	assert.Equal(want, got)
	assert.Equal(want, collect(sl))
}

func TestIteratorOutOfRange(t *testing.T) {
	assert := assert.New(t)
	sl := New[int](42)

	_, err := sl.End().Value()
	assert.ErrorIs(err, ErrOutOfRange)

	// end 的下一個仍是 end
	assert.Equal(sl.End(), sl.End().Next())

	sl.Insert(1)
	it := sl.Begin()
	_, err = it.Value()
	assert.NoError(err)
	_, err = it.Next().Value()
	assert.ErrorIs(err, ErrOutOfRange)
}

func TestLowerUpperBounds(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	sl := New[int](42)

	for i := 0; i < 10; i++ {
		sl.Insert(i * 2)
	}

	lb := sl.LowerBound(7)
	require.True(lb.Valid())
	v, err := lb.Value()
	require.NoError(err)
	assert.Equal(8, v)

	ub := sl.UpperBound(8)
	require.True(ub.Valid())
	v, err = ub.Value()
	require.NoError(err)
	assert.Equal(10, v)

	assert.Equal(sl.Begin(), sl.LowerBound(0))
	assert.Equal(sl.End(), sl.UpperBound(18))
}

func TestCloneAndEquality(t *testing.T) {
	assert := assert.New(t)
	sl := New[int](42)

	for i := 0; i < 20; i++ {
		sl.Insert(i)
	}
	cp := sl.Clone()
	assert.True(cp.Equal(sl))
	assert.True(sl.Equal(cp))

	// 任一方獨立變動後即不等價
	sl.Erase(5)
	assert.False(cp.Equal(sl))

	sl.Insert(5)
	assert.True(cp.Equal(sl))

	cp.Insert(100)
	assert.False(cp.Equal(sl))
}

func TestEqualIgnoresTopology(t *testing.T) {
	assert := assert.New(t)

	// 不同 seed 產生不同層級拓撲，但邏輯內容等價
	a := New[int](1)
	b := New[int](99999)
	for i := 0; i < 200; i++ {
		a.Insert(i)
		b.Insert(199 - i)
	}
	assert.True(a.Equal(b))
}

func TestMove(t *testing.T) {
	assert := assert.New(t)
	sl := New[int](42)

	for i := 0; i < 10; i++ {
		sl.Insert(i)
	}
	expect := sl.Clone()

	moved := sl.Move()
	assert.True(sl.Empty())
	assert.Equal(0, sl.Size())
	assert.Equal(10, moved.Size())
	assert.True(moved.Equal(expect))

	// 原列表仍為有效的空列表，可繼續使用
	_, inserted := sl.Insert(7)
	assert.True(inserted)
	assert.Equal(1, sl.Size())
	assert.Equal(10, moved.Size())
}

func TestDescendingOrder(t *testing.T) {
	assert := assert.New(t)
	sl := NewWith(func(a, b int) bool { return a > b }, 0.5, 42)

	for _, x := range []int{1, 4, 2, 8, 5, 3} {
		sl.Insert(x)
	}
	assert.Equal([]int{8, 5, 4, 3, 2, 1}, collect(sl))
}

func TestNewFromSlice(t *testing.T) {
	assert := assert.New(t)

	// 重複元素只保留一份
	sl := NewFromSlice([]int{3, 1, 3, 2, 1}, 42)
	assert.Equal(3, sl.Size())
	assert.Equal([]int{1, 2, 3}, collect(sl))
}

func TestStringKeys(t *testing.T) {
	assert := assert.New(t)
	sl := New[string](42)

	for _, s := range []string{"pear", "apple", "orange", "banana"} {
		sl.Insert(s)
	}
	assert.Equal([]string{"apple", "banana", "orange", "pear"}, collect(sl))
	assert.True(sl.Contains("banana"))
	assert.Equal(1, sl.Erase("banana"))
	assert.False(sl.Contains("banana"))
}
