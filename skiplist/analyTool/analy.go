package analyTool

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/Hakuto4838/OrderedSkipList.git/skiplist"
)

// StepMap 記錄每個 key 的搜尋步數
type StepMap[T cmp.Ordered] map[T]int

// FindStep 計算找到指定 key 的總步數和各層步數
func FindStep[T cmp.Ordered](sl skiplist.Analyable[T], key T) (step int, level []int) {
	cur := sl.GetHead()
	if cur == nil {
		return 0, []int{}
	}

	totalSteps := 0

	_, maxLevel := sl.GetMaxStats()
	stepsPerLevel := make([]int, maxLevel+1)

	// 從最高層開始搜尋
	for h := maxLevel; h >= 0; h-- {
		levelSteps := 0

		// 在當前層級水平移動
		for cur != nil {
			nextNode := cur.GetNextAt(int32(h))
			if nextNode == nil || nextNode.GetKey() >= key {
				break
			}
			cur = nextNode
			levelSteps++
		}

		// 如果找到目標 key，記錄步數並返回
		if cur != nil {
			nextNode := cur.GetNextAt(int32(h))
			if nextNode != nil && nextNode.GetKey() == key {
				levelSteps++ // 加上最後一步
				stepsPerLevel[h] = levelSteps
				totalSteps += levelSteps

				return totalSteps, stepsPerLevel[:maxLevel+1]
			}
		}

		stepsPerLevel[h] = levelSteps
		totalSteps += levelSteps + 1 // 加上向下移動
	}

	return totalSteps, stepsPerLevel[:maxLevel+1]
}

// AnalyzeStep 根據 map 提供的 key 出現機率計算平均搜尋步數
func AnalyzeStep[T cmp.Ordered](sl skiplist.Analyable[T], keys map[T]float64) (float64, StepMap[T]) {
	if len(keys) == 0 {
		return 0.0, nil
	}

	step := StepMap[T]{}

	var totalExpectedSteps float64
	var totalProbability float64

	// 遞迴走訪所有節點，若存在於 keys 則累計期望步數
	var dfs func(node skiplist.Nodelike[T], level int, steps int)
	dfs = func(node skiplist.Nodelike[T], level int, steps int) {
		if node == nil {
			return
		}

		if node.GetLevel() == int32(level) { // 初次到來
			if p, ok := keys[node.GetKey()]; ok {
				totalExpectedSteps += float64(steps) * p
				totalProbability += p
				step[node.GetKey()] = steps
			}
		}
		if level > 0 { // 下降也算一步
			dfs(node, level-1, steps+1)
		}

		nextNode := node.GetNextAt(int32(level))
		if nextNode != nil && nextNode.GetLevel() == int32(level) {
			// 若下一個節點高度較高，則不屬於本次走訪
			dfs(nextNode, level, steps+1)
		}
	}

	_, maxLevel := sl.GetMaxStats()
	head := sl.GetHead()
	if head != nil {
		dfs(head, maxLevel, 0)
	}

	if totalProbability > 0 {
		return totalExpectedSteps / totalProbability, step
	}
	return 0.0, step
}

// PrintSkipList 打印 skip list 的結構（head 顯示為 H）
func PrintSkipList[T cmp.Ordered](sl skiplist.Analyable[T], maxLevel, maxNodes int) {
	_, actualMaxLevel := sl.GetMaxStats()
	maxLevel = min(maxLevel, actualMaxLevel)

	head := sl.GetHead()
	if head == nil {
		fmt.Println("skip list 為空")
		return
	}

	output := make([]string, maxLevel+1)
	for i := maxLevel; i >= 0; i-- {
		output[i] = fmt.Sprintf("level %d :   H ->", i)
	}

	node := head.GetNextAt(0)
	count := 0
	for ; node != nil && count < maxNodes; count++ {
		lv := int(node.GetLevel())
		for i := range output {
			if i <= lv {
				output[i] += fmt.Sprintf("%3v ->", node.GetKey())
			} else {
				output[i] += "    ->"
			}
		}
		node = node.GetNextAt(0)
	}

	for i := maxLevel; i >= 0; i-- {
		fmt.Println(output[i])
	}
}

// PrintLink 依層打印 skip list 的連結結構
func PrintLink[T cmp.Ordered](sl skiplist.Analyable[T], maxLevel, maxNodes int) {
	head := sl.GetHead()
	if head == nil {
		fmt.Println("skip list 為空")
		return
	}

	maxLevel = min(maxLevel, int(head.GetLevel()))

	for i := maxLevel; i >= 0; i-- {
		fmt.Printf("level %d : H ->", i)
		node := head.GetNextAt(int32(i))
		count := 0
		for node != nil && count < maxNodes {
			fmt.Printf("%v ->", node.GetKey())
			node = node.GetNextAt(int32(i))
			count++
		}
		fmt.Println()
	}
}

// PrintToCSV 將 skip list 的層級結構輸出到 CSV
func PrintToCSV[T cmp.Ordered](sl skiplist.Analyable[T], writer *csv.Writer) {
	_, actualMaxLevel := sl.GetMaxStats()

	outstr := make([][]string, actualMaxLevel+1)
	var dfs func(node skiplist.Nodelike[T], level int)
	dfs = func(node skiplist.Nodelike[T], level int) {
		if node == nil {
			return
		}
		if node.GetLevel() == int32(level) {
			for i := range outstr {
				if i <= level {
					outstr[i] = append(outstr[i], fmt.Sprintf("%v", node.GetKey()))
				} else {
					outstr[i] = append(outstr[i], "")
				}
			}
		}
		if level > 0 {
			dfs(node, level-1)
		}
		nextNode := node.GetNextAt(int32(level))
		if nextNode != nil && nextNode.GetLevel() == int32(level) {
			dfs(nextNode, level)
		}
	}
	head := sl.GetHead()
	if head != nil {
		dfs(head, actualMaxLevel)
	}

	for i := len(outstr) - 1; i >= 0; i-- {
		row := make([]string, len(outstr[i])+1)
		row[0] = fmt.Sprintf("level %d", i)
		copy(row[1:], outstr[i])
		writer.Write(row)
	}
}

// CheckStruct 檢查 skip list 的結構是否正確：
// 各層連結必須與 level 0 走訪到的節點層級一致，且 level 0 必須嚴格升冪
func CheckStruct[T cmp.Ordered](sl skiplist.Analyable[T]) bool {
	_, maxLevel := sl.GetMaxStats()
	list := make([]skiplist.Nodelike[T], maxLevel+1)

	head := sl.GetHead()
	if head == nil {
		return true
	}

	for i := range list {
		list[i] = head
	}

	node := head.GetNextAt(0)
	var prev skiplist.Nodelike[T]

	for node != nil {
		if prev != nil && prev.GetKey() >= node.GetKey() {
			fmt.Printf("level 0 非嚴格升冪: %v >= %v\n", prev.GetKey(), node.GetKey())
			return false
		}

		nodelv := node.GetLevel()
		if nodelv > int32(maxLevel) {
			fmt.Printf("nodelv > level, nodelv: %d, level: %d\n", nodelv, maxLevel)
			return false
		}
		for i := 1; i <= int(nodelv); i++ {
			nextAtLevel := list[i].GetNextAt(int32(i))
			if nextAtLevel != node {
				fmt.Printf("list[%d] 連結不一致, got: %v, want: %v\n", i, nextAtLevel.GetKey(), node.GetKey())
				return false
			}
			list[i] = node
		}
		prev = node
		node = node.GetNextAt(0)
	}

	return true
}

// CountLevel 統計每層的節點數量
func CountLevel[T cmp.Ordered](sl skiplist.Analyable[T]) []int {
	maxNodes, maxLevel := sl.GetMaxStats()
	levelCounts := make([]int, maxLevel+1)

	head := sl.GetHead()
	current := head.GetNextAt(0) // 從第一個實際節點開始（跳過 head）

	for current != nil {
		nodeLevel := current.GetLevel()
		for i := int32(0); i <= nodeLevel; i++ {
			if int(i) < len(levelCounts) {
				levelCounts[i]++
			}
		}
		current = current.GetNextAt(0)
	}

	fmt.Printf("層級節點統計 (總節點數: %d, 最高層級: %d):\n", maxNodes, maxLevel)
	for i := maxLevel; i >= 0; i-- {
		fmt.Printf("Level %2d: %d 個節點\n", i, levelCounts[i])
	}

	return levelCounts
}

func (mp StepMap[T]) Print() {
	type kv struct {
		key  T
		step int
	}
	out := make([]kv, 0, len(mp))
	for k, v := range mp {
		out = append(out, kv{k, v})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].key < out[j].key
	})

	for _, v := range out {
		fmt.Printf("%2v  ", v.key)
	}
	fmt.Println()
	for _, v := range out {
		fmt.Printf("%2d  ", v.step)
	}
	fmt.Println()
}

func (mp StepMap[T]) PrintToCSV(writer *csv.Writer) {
	type kv struct {
		key  T
		step int
	}
	out := make([]kv, 0, len(mp))
	for k, v := range mp {
		out = append(out, kv{k, v})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].key < out[j].key
	})

	steps := make([]string, len(out)+2)
	for i, v := range out {
		steps[i+2] = fmt.Sprintf("%d", v.step)
	}

	writer.Write(steps)
}
