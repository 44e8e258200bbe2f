package ordered

import (
	"cmp"
	"iter"
	"math/rand"

	"github.com/Hakuto4838/OrderedSkipList.git/skiplist"
)

const (
	maxLevel = 16
	defaultP = 0.5
)

// LessFunc 為嚴格弱序比較器；a 排在 b 之前時回傳 true
type LessFunc[T any] func(a, b T) bool

type node[T any] struct {
	value T
	next  []*node[T]
}

func newNode[T any](value T, level int32) *node[T] {
	return &node[T]{
		value: value,
		next:  make([]*node[T], level+1),
	}
}

// List 是唯一鍵的有序集合。零值不可用，必須經由 New 系列建構
type List[T any] struct {
	head  *node[T]
	level int32
	size  int
	less  LessFunc[T]
	p     float64
	rand  *rand.Rand
}

// New 以內建排序建立空列表
func New[T cmp.Ordered](seed int64) *List[T] {
	return NewWith(cmp.Less[T], defaultP, seed)
}

// NewWith 以自訂比較器與升層機率 p 建立空列表；p 超出 (0,1) 時回退為 0.5
func NewWith[T any](less LessFunc[T], p float64, seed int64) *List[T] {
	if p <= 0 || p >= 1 {
		p = defaultP
	}
	var zero T
	return &List[T]{
		head: newNode(zero, maxLevel),
		less: less,
		p:    p,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// NewFromSlice 依序插入 vals 建立列表，重複元素只保留一份
func NewFromSlice[T cmp.Ordered](vals []T, seed int64) *List[T] {
	sl := New[T](seed)
	for _, v := range vals {
		sl.Insert(v)
	}
	return sl
}

func (sl *List[T]) randomLevel() int32 {
	lvl := int32(0)
	for lvl < maxLevel && sl.rand.Float64() < sl.p {
		lvl++
	}
	return lvl
}

// equal 以比較器判定等價：雙向皆不小於
func (sl *List[T]) equal(a, b T) bool {
	return !sl.less(a, b) && !sl.less(b, a)
}

// searchUpdate 自最高層往下走，回傳每層最後一個小於 v 的節點
func (sl *List[T]) searchUpdate(v T, update *[maxLevel + 1]*node[T]) *node[T] {
	cur := sl.head
	for h := sl.level; h >= 0; h-- {
		for cur.next[h] != nil && sl.less(cur.next[h].value, v) {
			cur = cur.next[h]
		}
		update[h] = cur
	}
	return cur.next[0]
}

// Insert 插入 v。若等價元素已存在則不做任何修改，
// 回傳既有位置與 false；否則回傳新位置與 true
func (sl *List[T]) Insert(v T) (Iterator[T], bool) {
	var update [maxLevel + 1]*node[T]
	cand := sl.searchUpdate(v, &update)
	if cand != nil && sl.equal(cand.value, v) {
		return Iterator[T]{n: cand}, false
	}

	lvl := sl.randomLevel()
	if lvl > sl.level {
		for h := sl.level + 1; h <= lvl; h++ {
			update[h] = sl.head
		}
		sl.level = lvl
	}

	nd := newNode(v, lvl)
	for h := int32(0); h <= lvl; h++ {
		nd.next[h] = update[h].next[h]
		update[h].next[h] = nd
	}
	sl.size++
	return Iterator[T]{n: nd}, true
}

// Erase 移除等價於 v 的元素，回傳移除數量（0 或 1）
func (sl *List[T]) Erase(v T) int {
	var update [maxLevel + 1]*node[T]
	target := sl.searchUpdate(v, &update)
	if target == nil || !sl.equal(target.value, v) {
		return 0
	}

	for h := int32(0); h <= sl.level; h++ {
		// subset-of-levels：某層一旦不再指向 target，更高層也不會
		if update[h].next[h] != target {
			break
		}
		update[h].next[h] = target.next[h]
	}
	for sl.level > 0 && sl.head.next[sl.level] == nil {
		sl.level--
	}
	sl.size--
	return 1
}

func (sl *List[T]) findNode(v T) *node[T] {
	cur := sl.head
	for h := sl.level; h >= 0; h-- {
		for cur.next[h] != nil && sl.less(cur.next[h].value, v) {
			cur = cur.next[h]
		}
	}
	cand := cur.next[0]
	if cand != nil && sl.equal(cand.value, v) {
		return cand
	}
	return nil
}

// Find 回傳等價於 v 的位置，不存在時回傳 end 迭代器
func (sl *List[T]) Find(v T) Iterator[T] {
	return Iterator[T]{n: sl.findNode(v)}
}

// Contains 判斷等價元素是否存在
func (sl *List[T]) Contains(v T) bool {
	return sl.findNode(v) != nil
}

// Count 回傳等價元素的數量（0 或 1）
func (sl *List[T]) Count(v T) int {
	if sl.findNode(v) != nil {
		return 1
	}
	return 0
}

// LowerBound 回傳第一個不小於 v 的位置
func (sl *List[T]) LowerBound(v T) Iterator[T] {
	cur := sl.head
	for h := sl.level; h >= 0; h-- {
		for cur.next[h] != nil && sl.less(cur.next[h].value, v) {
			cur = cur.next[h]
		}
	}
	return Iterator[T]{n: cur.next[0]}
}

// UpperBound 回傳第一個大於 v 的位置
func (sl *List[T]) UpperBound(v T) Iterator[T] {
	cur := sl.head
	for h := sl.level; h >= 0; h-- {
		for cur.next[h] != nil && !sl.less(v, cur.next[h].value) {
			cur = cur.next[h]
		}
	}
	return Iterator[T]{n: cur.next[0]}
}

// Begin 回傳最小元素的位置；空列表時即為 end
func (sl *List[T]) Begin() Iterator[T] {
	return Iterator[T]{n: sl.head.next[0]}
}

// End 回傳 end 迭代器（序列結尾標記）
func (sl *List[T]) End() Iterator[T] {
	return Iterator[T]{}
}

// Size 回傳元素數量
func (sl *List[T]) Size() int {
	return sl.size
}

// Empty 判斷列表是否為空
func (sl *List[T]) Empty() bool {
	return sl.size == 0
}

// Clear 移除所有元素並將層級歸零，既有迭代器全部失效
func (sl *List[T]) Clear() {
	for h := range sl.head.next {
		sl.head.next[h] = nil
	}
	sl.level = 0
	sl.size = 0
}

// Clone 以走訪順序重新插入產生獨立副本；層級重新抽樣，
// 拓撲不必與原列表相同，但內容等價
func (sl *List[T]) Clone() *List[T] {
	cp := NewWith(sl.less, sl.p, sl.rand.Int63())
	for n := sl.head.next[0]; n != nil; n = n.next[0] {
		cp.Insert(n.value)
	}
	return cp
}

// Move 以常數時間轉移全部節點與狀態到新列表；
// 原列表變為有效的空列表，可繼續使用
func (sl *List[T]) Move() *List[T] {
	dst := &List[T]{
		head:  sl.head,
		level: sl.level,
		size:  sl.size,
		less:  sl.less,
		p:     sl.p,
		rand:  sl.rand,
	}
	var zero T
	sl.head = newNode(zero, maxLevel)
	sl.level = 0
	sl.size = 0
	sl.rand = rand.New(rand.NewSource(dst.rand.Int63()))
	return dst
}

// Equal 判斷兩列表是否等價：數量相同且 level 0 序列逐一等價
func (sl *List[T]) Equal(o *List[T]) bool {
	if o == nil || sl.size != o.size {
		return false
	}
	a, b := sl.head.next[0], o.head.next[0]
	for a != nil {
		if !sl.equal(a.value, b.value) {
			return false
		}
		a, b = a.next[0], b.next[0]
	}
	return true
}

// Values 以升冪順序走訪所有元素
func (sl *List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := sl.head.next[0]; n != nil; n = n.next[0] {
			if !yield(n.value) {
				return
			}
		}
	}
}

// GetHead 實現 skiplist.Analyable 介面
func (sl *List[T]) GetHead() skiplist.Nodelike[T] {
	return sl.head
}

// GetMaxStats 實現 skiplist.Analyable 介面
func (sl *List[T]) GetMaxStats() (int, int) {
	return sl.size, int(sl.level)
}

func (nd *node[T]) GetKey() T {
	return nd.value
}

func (nd *node[T]) GetLevel() int32 {
	return int32(len(nd.next) - 1)
}

func (nd *node[T]) GetNextAt(level int32) skiplist.Nodelike[T] {
	if level < 0 || level >= int32(len(nd.next)) {
		return nil
	}
	if nd.next[level] == nil {
		return nil
	}
	return nd.next[level]
}
