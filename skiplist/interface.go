package skiplist

// Nodelike 讓走訪工具以統一介面存取任意 skip list 節點
type Nodelike[T any] interface {
	GetKey() T
	GetLevel() int32
	GetNextAt(level int32) Nodelike[T]
}

// Analyable 提供分析功能的介面
type Analyable[T any] interface {
	// GetHead 回傳 head sentinel（不含有效 key）
	GetHead() Nodelike[T]
	// GetMaxStats 獲取節點總數和目前最高層級
	GetMaxStats() (maxNodes int, maxLevel int)
}
