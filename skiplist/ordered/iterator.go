package ordered

import "errors"

// ErrOutOfRange 表示對 end 迭代器取值
var ErrOutOfRange = errors.New("ordered: iterator out of range")

// Iterator 是節點位置的非擁有參照；零值即 end 標記。
// 只沿 level 0 前進，因此輸出必為升冪序列
type Iterator[T any] struct {
	n *node[T]
}

// Valid 判斷是否指向有效節點（非 end）
func (it Iterator[T]) Valid() bool {
	return it.n != nil
}

// Next 回傳下一個位置；end 的下一個仍是 end
func (it Iterator[T]) Next() Iterator[T] {
	if it.n == nil {
		return it
	}
	return Iterator[T]{n: it.n.next[0]}
}

// Value 回傳所指元素；對 end 取值回傳 ErrOutOfRange
func (it Iterator[T]) Value() (T, error) {
	if it.n == nil {
		var zero T
		return zero, ErrOutOfRange
	}
	return it.n.value, nil
}
