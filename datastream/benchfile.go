package datastream

import (
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	randv2 "math/rand/v2"
)

// 檔案格式（LittleEndian）：
// [8]byte  Magic: "OSBENCH1"
// uint16   Version: 1
// uint16   Reserved: 0
// uint32   DistCount
// 重複 DistCount 次：
//   int64   Key
//   float64 Weight
// uint64   OpCount
// 重複 OpCount 次：
//   uint8   OperationType (0=Query,1=Insert,2=Delete)
//   int64   Key

var (
	benchMagic   = [8]byte{'O', 'S', 'B', 'E', 'N', 'C', 'H', '1'}
	benchVersion = uint16(1)
)

type BenchOp struct {
	Type OperationType
	Key  Key
}

type BenchFile struct {
	Dist map[Key]float64
	Ops  []BenchOp
}

// BenchInfo 是寫檔後回傳的分布摘要
type BenchInfo struct {
	Dist    map[Key]float64
	Entropy float64
}

// WriteBenchFile 產生操作序列並寫入 bin 檔。
// 參數：
//   - n: key 數量
//   - s, v: Zipf 參數。s = 0 時使用均勻分布；否則需滿足 s > 1、v >= 1
//   - seed: 隨機種子
//   - k: 輸出操作數量（需 >= n，以保證每個 key 至少插入一次）
//   - phase1Ratio: 第一階段操作比例（第一階段保證覆蓋所有 key）
//   - deleteRatio: 已存在 key 被刪除的機率
//   - simpleKey: true 時 key 為 0..n-1 的洗牌，false 時為隨機 32-bit key
//
// 規則：
//   - key 首次出現必為 Insert；之後依 deleteRatio 產生 Delete，其餘為 Query
//   - Delete 後該 key 再次出現時重新 Insert
func WriteBenchFile(n int, s, v float64, seed uint64, k int, phase1Ratio, deleteRatio float64, filename string, simpleKey bool) (*BenchInfo, error) {
	phase1Size := int(float64(k) * phase1Ratio)
	if n <= 0 {
		return nil, fmt.Errorf("invalid n: %d", n)
	}
	if k < n {
		return nil, fmt.Errorf("k (%d) must be >= n (%d) to ensure each key appears at least once", k, n)
	}
	if phase1Size < n || phase1Size > k {
		return nil, fmt.Errorf("phase1Size (%d) must satisfy n <= phase1Size <= k", phase1Size)
	}
	if deleteRatio < 0.0 || deleteRatio > 1.0 {
		return nil, fmt.Errorf("deleteRatio (%v) must be between 0.0 and 1.0", deleteRatio)
	}

	r := randv2.New(randv2.NewPCG(seed, 0))

	// 以 rank 為單位抽樣；s = 0 時退化為均勻分布
	var weights []float64
	var drawRank func() int
	if s == 0.0 {
		weights = uniformWeights(n)
		drawRank = func() int { return r.IntN(n) }
	} else {
		if s <= 1.0 || v < 1.0 {
			return nil, fmt.Errorf("invalid zipf params: s=%v must >1, v=%v must >=1", s, v)
		}
		weights = zipfWeights(n, s, v)
		zipf := randv2.NewZipf(r, s, v, uint64(n-1))
		drawRank = func() int { return int(zipf.Uint64()) }
	}

	rankToKey := makeRankKeys(r, n, simpleKey)

	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Header
	if _, err := file.Write(benchMagic[:]); err != nil {
		return nil, err
	}
	if err := binary.Write(file, binary.LittleEndian, benchVersion); err != nil {
		return nil, err
	}
	if err := binary.Write(file, binary.LittleEndian, uint16(0)); err != nil { // reserved
		return nil, err
	}

	// Distribution map（依 key 升冪輸出，確保可重現）
	type kv struct {
		k int64
		w float64
	}
	pairs := make([]kv, n)
	for rank := 0; rank < n; rank++ {
		pairs[rank] = kv{k: rankToKey[rank], w: weights[rank]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })

	if err := binary.Write(file, binary.LittleEndian, uint32(n)); err != nil {
		return nil, err
	}
	dist := make(map[Key]float64, n)
	for _, p := range pairs {
		if err := binary.Write(file, binary.LittleEndian, p.k); err != nil {
			return nil, err
		}
		if err := binary.Write(file, binary.LittleEndian, p.w); err != nil {
			return nil, err
		}
		dist[p.k] = p.w
	}

	// Operations
	if err := binary.Write(file, binary.LittleEndian, uint64(k)); err != nil {
		return nil, err
	}

	// 第一階段 key 列表：前 n 個覆蓋所有 key，其餘依分布抽樣補齊，最後打亂
	phase1Keys := make([]int64, phase1Size)
	copy(phase1Keys, rankToKey)
	for i := n; i < phase1Size; i++ {
		phase1Keys[i] = rankToKey[drawRank()]
	}
	r.Shuffle(len(phase1Keys), func(i, j int) { phase1Keys[i], phase1Keys[j] = phase1Keys[j], phase1Keys[i] })

	// 狀態：是否在表中
	present := make(map[int64]bool, n)
	emit := func(key int64) error {
		var op OperationType
		if !present[key] {
			op = OpInsert
			present[key] = true
		} else if r.Float64() < deleteRatio {
			op = OpDelete
			present[key] = false
		} else {
			op = OpQuery
		}
		if err := binary.Write(file, binary.LittleEndian, uint8(op)); err != nil {
			return err
		}
		return binary.Write(file, binary.LittleEndian, key)
	}

	for _, key := range phase1Keys {
		if err := emit(key); err != nil {
			return nil, err
		}
	}
	// 第二階段：剩餘 k - phase1Size 個操作，依分布抽 rank 再映射 key
	for i := phase1Size; i < k; i++ {
		if err := emit(rankToKey[drawRank()]); err != nil {
			return nil, err
		}
	}

	return &BenchInfo{Dist: dist, Entropy: EntropyFromDist(dist)}, nil
}

// makeRankKeys 建立 rank -> key 的隨機對應（不重複）
func makeRankKeys(r *randv2.Rand, n int, simpleKey bool) []int64 {
	rankToKey := make([]int64, n)
	if simpleKey {
		for i := 0; i < n; i++ {
			rankToKey[i] = int64(i)
		}
		r.Shuffle(len(rankToKey), func(i, j int) { rankToKey[i], rankToKey[j] = rankToKey[j], rankToKey[i] })
		return rankToKey
	}
	check := make(map[int64]struct{}, n)
	for i := 0; i < n; i++ {
		genKey := int64(r.Uint32())
		for _, ok := check[genKey]; ok; _, ok = check[genKey] {
			genKey = int64(r.Uint32())
		}
		rankToKey[i] = genKey
		check[genKey] = struct{}{}
	}
	return rankToKey
}

// zipfWeights 計算 rank 0..n-1 的 Zipf 理論機率並正規化
func zipfWeights(n int, s, v float64) []float64 {
	weights := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		w := 1.0 / math.Pow(v+float64(i), s)
		weights[i] = w
		sum += w
	}
	for i := 0; i < n; i++ {
		weights[i] /= sum
	}
	return weights
}

func uniformWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		weights[i] = 1.0 / float64(n)
	}
	return weights
}

// ReadBenchFile 讀取 bin 檔案，回傳分布與操作序列
func ReadBenchFile(filename string) (*BenchFile, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	var magic [8]byte
	if _, err := io.ReadFull(fd, magic[:]); err != nil {
		return nil, err
	}
	if magic != benchMagic {
		return nil, fmt.Errorf("invalid magic: %q", magic)
	}
	var ver uint16
	if err := binary.Read(fd, binary.LittleEndian, &ver); err != nil {
		return nil, err
	}
	if ver != benchVersion {
		return nil, fmt.Errorf("unsupported version: %d", ver)
	}
	var reserved uint16
	if err := binary.Read(fd, binary.LittleEndian, &reserved); err != nil {
		return nil, err
	}

	// distribution
	var distCount uint32
	if err := binary.Read(fd, binary.LittleEndian, &distCount); err != nil {
		return nil, err
	}
	dist := make(map[Key]float64, distCount)
	for i := uint32(0); i < distCount; i++ {
		var key int64
		var weight float64
		if err := binary.Read(fd, binary.LittleEndian, &key); err != nil {
			return nil, err
		}
		if err := binary.Read(fd, binary.LittleEndian, &weight); err != nil {
			return nil, err
		}
		dist[key] = weight
	}

	// operations
	var opCount uint64
	if err := binary.Read(fd, binary.LittleEndian, &opCount); err != nil {
		return nil, err
	}
	ops := make([]BenchOp, 0, opCount)
	for i := uint64(0); i < opCount; i++ {
		var t uint8
		var key int64
		if err := binary.Read(fd, binary.LittleEndian, &t); err != nil {
			return nil, err
		}
		if err := binary.Read(fd, binary.LittleEndian, &key); err != nil {
			return nil, err
		}
		ops = append(ops, BenchOp{Type: OperationType(t), Key: key})
	}

	return &BenchFile{Dist: dist, Ops: ops}, nil
}

// ToSequenceModel 將 BenchFile 轉為可重播的 SequenceModel
func (bf *BenchFile) ToSequenceModel() *SequenceModel {
	if bf == nil {
		return NewSequenceModelFromOps(nil)
	}
	ops := make([]Operation, len(bf.Ops))
	for i, op := range bf.Ops {
		ops[i] = Operation{Type: op.Type, Key: op.Key}
	}
	return NewSequenceModelFromOps(ops)
}

// EntropyFromDist 計算分布的熵（單位：bit）。
// dist 的 value 應為已正規化的機率；會自動忽略 <= 0 的值
func EntropyFromDist(dist map[Key]float64) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

func (info *BenchInfo) DistributeToCSV(writer *csv.Writer) {
	keys := make([]string, 0, len(info.Dist)+2)
	probs := make([]string, 0, len(info.Dist)+2)
	keys = append(keys, "", "")
	probs = append(probs, "", "")

	sortedKeys := make([]Key, 0, len(info.Dist))
	for k := range info.Dist {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Slice(sortedKeys, func(i, j int) bool { return sortedKeys[i] < sortedKeys[j] })

	for _, k := range sortedKeys {
		keys = append(keys, fmt.Sprintf("%d", k))
		probs = append(probs, fmt.Sprintf("%f", info.Dist[k]))
	}
	writer.Write(keys)
	writer.Write(probs)
}
