// Package ordered 實作唯一鍵的有序集合（skip list）。
// 搜尋、插入、刪除的期望時間皆為 O(log n)，走訪依比較器升冪輸出。
// 本套件不做任何內部同步，併發使用時應由呼叫端以 mutex 保護；
// 迭代器僅是節點的非擁有參照，在節點被刪除或列表被清空後不得再使用。
package ordered
