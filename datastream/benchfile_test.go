package datastream

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAndReadBenchFile(t *testing.T) {
	const (
		n           = 8
		s           = 1.2
		v           = 1.0
		k           = 200
		phase1Ratio = 0.5
		deleteRatio = 0.1
	)
	path := filepath.Join(t.TempDir(), "bench.bin")

	info, err := WriteBenchFile(n, s, v, 42, k, phase1Ratio, deleteRatio, path, true)
	if err != nil {
		t.Fatalf("WriteBenchFile 失敗: %v", err)
	}
	if len(info.Dist) != n {
		t.Fatalf("分布應包含 %d 個 key，得到 %d", n, len(info.Dist))
	}

	bf, err := ReadBenchFile(path)
	if err != nil {
		t.Fatalf("ReadBenchFile 失敗: %v", err)
	}
	if len(bf.Ops) != k {
		t.Fatalf("操作數應為 %d，得到 %d", k, len(bf.Ops))
	}
	if len(bf.Dist) != n {
		t.Fatalf("讀回的分布應包含 %d 個 key，得到 %d", n, len(bf.Dist))
	}

	// 讀回的分布權重需與寫入時一致
	var sum float64
	for key, w := range bf.Dist {
		if got := info.Dist[key]; got != w {
			t.Errorf("key %d 權重不一致: 寫入 %f, 讀回 %f", key, got, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("權重總和應為 1，得到 %f", sum)
	}

	// 重播操作並驗證狀態一致性：
	// 首次出現必為 Insert；Query/Delete 只作用於已存在的 key；
	// Delete 後再次出現必為 Insert
	present := make(map[Key]bool, n)
	seen := make(map[Key]bool, n)
	for i, op := range bf.Ops {
		if _, ok := bf.Dist[op.Key]; !ok {
			t.Fatalf("ops[%d] 的 key %d 不在分布中", i, op.Key)
		}
		switch op.Type {
		case OpInsert:
			if present[op.Key] {
				t.Fatalf("ops[%d] 對已存在的 key %d 重複 Insert", i, op.Key)
			}
			present[op.Key] = true
		case OpQuery, OpDelete:
			if !present[op.Key] {
				t.Fatalf("ops[%d] 對不存在的 key %d 執行 %s", i, op.Key, op.Type)
			}
			if op.Type == OpDelete {
				present[op.Key] = false
			}
		default:
			t.Fatalf("ops[%d] 未知操作類型: %d", i, op.Type)
		}
		seen[op.Key] = true
	}

	// phase1 保證所有 key 至少出現一次
	for key := range bf.Dist {
		if !seen[key] {
			t.Errorf("key %d 從未出現在操作序列中", key)
		}
	}
}

func TestWriteBenchFileUniform(t *testing.T) {
	const n = 16
	path := filepath.Join(t.TempDir(), "uniform.bin")

	// s = 0 時使用均勻分布
	info, err := WriteBenchFile(n, 0, 0, 42, 100, 0.5, 0.0, path, true)
	if err != nil {
		t.Fatalf("WriteBenchFile 失敗: %v", err)
	}

	for key, w := range info.Dist {
		if math.Abs(w-1.0/float64(n)) > 1e-12 {
			t.Errorf("key %d 的權重應為 %f，得到 %f", key, 1.0/float64(n), w)
		}
	}
	if math.Abs(info.Entropy-math.Log2(float64(n))) > 1e-9 {
		t.Errorf("均勻分布的熵應為 %f，得到 %f", math.Log2(float64(n)), info.Entropy)
	}
}

func TestWriteBenchFileValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.bin")

	cases := []struct {
		name    string
		n, k    int
		s, v    float64
		p1r, dr float64
	}{
		{"k 小於 n", 100, 50, 1.2, 1.0, 0.5, 0.1},
		{"n 為 0", 0, 100, 1.2, 1.0, 0.5, 0.1},
		{"zipf s 不大於 1", 10, 100, 0.9, 1.0, 0.5, 0.1},
		{"zipf v 小於 1", 10, 100, 1.2, 0.5, 0.5, 0.1},
		{"deleteRatio 超出範圍", 10, 100, 1.2, 1.0, 0.5, 1.5},
		{"phase1 無法覆蓋所有 key", 90, 100, 1.2, 1.0, 0.1, 0.1},
	}
	for _, c := range cases {
		if _, err := WriteBenchFile(c.n, c.s, c.v, 42, c.k, c.p1r, c.dr, path, true); err == nil {
			t.Errorf("%s: 應返回錯誤", c.name)
		}
	}
}

func TestReadBenchFileBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	if err := os.WriteFile(path, []byte("NOTMAGIC...."), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadBenchFile(path); err == nil {
		t.Error("錯誤的 magic 應返回錯誤")
	}
}

func TestToSequenceModel(t *testing.T) {
	const k = 50
	path := filepath.Join(t.TempDir(), "seq.bin")

	if _, err := WriteBenchFile(10, 0, 0, 42, k, 0.5, 0.1, path, true); err != nil {
		t.Fatal(err)
	}
	bf, err := ReadBenchFile(path)
	if err != nil {
		t.Fatal(err)
	}

	m := bf.ToSequenceModel()
	count := 0
	for {
		op, ok := m.Next()
		if !ok {
			break
		}
		if bf.Ops[count].Key != op.Key || bf.Ops[count].Type != op.Type {
			t.Fatalf("第 %d 筆操作與原始序列不一致", count)
		}
		count++
	}
	if count != k {
		t.Fatalf("重播操作數應為 %d，得到 %d", k, count)
	}

	// Reset 後可重新取出
	m.Reset()
	batch := m.NextN(10)
	if len(batch) != 10 {
		t.Fatalf("NextN(10) 應返回 10 筆，得到 %d", len(batch))
	}
	if batch[0] != (Operation{Type: bf.Ops[0].Type, Key: bf.Ops[0].Key}) {
		t.Fatal("Reset 後第一筆操作不一致")
	}
}
