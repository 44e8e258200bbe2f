package datastream

import (
	"math"
	"path/filepath"
	"testing"
)

func TestZipfDataGenerator(t *testing.T) {
	const n = 100
	gen := NewZipfDataGenerator(n, 1.07, 1.0, 42)

	var _ DataStream = gen

	pdf := gen.GetPDF()
	if len(pdf) != n {
		t.Fatalf("PDF 長度應為 %d，得到 %d", n, len(pdf))
	}
	var sum float64
	for _, p := range pdf {
		if p <= 0 {
			t.Fatal("PDF 中出現非正值")
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("PDF 總和應為 1，得到 %f", sum)
	}

	cdf := gen.GetCDF()
	for i := 1; i < len(cdf); i++ {
		if cdf[i] < cdf[i-1] {
			t.Fatal("CDF 應單調遞增")
		}
	}
	if math.Abs(cdf[len(cdf)-1]-1.0) > 1e-9 {
		t.Errorf("CDF 末端應為 1，得到 %f", cdf[len(cdf)-1])
	}

	if h := gen.Entropy(); h <= 0 || h > math.Log2(float64(n)) {
		t.Errorf("熵應落在 (0, log2(n)] 範圍，得到 %f", h)
	}

	kmap := gen.GetKeyMap()
	if len(kmap) != n {
		t.Errorf("GetKeyMap 應包含 %d 個 key，得到 %d", n, len(kmap))
	}

	for i := 0; i < 1000; i++ {
		if v := gen.Next(); v < 0 || v >= n {
			t.Fatalf("Next 超出範圍: %d", v)
		}
	}
}

func TestUniformDataGenerator(t *testing.T) {
	const n = 50
	gen := NewUniformDataGenerator(n, 42)

	var _ DataStream = gen

	if h := gen.Entropy(); math.Abs(h-math.Log2(float64(n))) > 1e-9 {
		t.Errorf("均勻分布的熵應為 log2(n)=%f，得到 %f", math.Log2(float64(n)), h)
	}
	for _, p := range gen.GetPDF() {
		if math.Abs(p-1.0/float64(n)) > 1e-12 {
			t.Fatalf("均勻分布的權重應為 %f，得到 %f", 1.0/float64(n), p)
		}
	}
	for i := 0; i < 1000; i++ {
		if v := gen.Next(); v < 0 || v >= n {
			t.Fatalf("Next 超出範圍: %d", v)
		}
	}
}

func TestWriteAndReadSequence(t *testing.T) {
	const k = 500
	path := filepath.Join(t.TempDir(), "seq.bin")

	gen := NewZipfDataGenerator(30, 1.07, 1.0, 42)
	if err := gen.WriteSequenceToFile(path, k); err != nil {
		t.Fatalf("WriteSequenceToFile 失敗: %v", err)
	}

	reader, err := NewSequenceReaderFromFile(path)
	if err != nil {
		t.Fatalf("NewSequenceReaderFromFile 失敗: %v", err)
	}
	count := 0
	for {
		v, ok := reader.Next()
		if !ok {
			break
		}
		if v < 0 || v >= 30 {
			t.Fatalf("讀回的值超出範圍: %d", v)
		}
		count++
	}
	if count != k {
		t.Fatalf("讀回筆數應為 %d，得到 %d", k, count)
	}
}
