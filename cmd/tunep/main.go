package main

import (
	"cmp"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/Hakuto4838/OrderedSkipList.git/datastream"
	"github.com/Hakuto4838/OrderedSkipList.git/saalgo"
	"github.com/Hakuto4838/OrderedSkipList.git/skiplist/ordered"
)

// evaluateCost 評估給定升層機率 p 的執行時間成本。
// 返回所有 benchmark 檔案的平均執行時間總和（ms）
func evaluateCost(p float64, benchFiles []*datastream.BenchFile, runs int, seed int64) float64 {
	var totalMs float64

	for _, bf := range benchFiles {
		var fileMs float64
		for i := 0; i < runs; i++ {
			sl := ordered.NewWith(cmp.Less[int64], p, seed+int64(i))

			start := time.Now()
			for _, op := range bf.Ops {
				switch op.Type {
				case datastream.OpQuery:
					sl.Contains(op.Key)
				case datastream.OpInsert:
					sl.Insert(op.Key)
				case datastream.OpDelete:
					sl.Erase(op.Key)
				}
			}
			elapsed := time.Since(start)
			fileMs += float64(elapsed.Microseconds()) / 1000.0
		}
		totalMs += fileMs / float64(runs)
	}

	return totalMs
}

// pSolution 以升層機率 p 為解，成本為 benchmark 重播時間
type pSolution struct {
	p     float64
	bench []*datastream.BenchFile
	runs  int
	seed  int64
	rng   *rand.Rand
}

func (s *pSolution) Clone() saalgo.Solution {
	cp := *s
	return &cp
}

func (s *pSolution) GetCost() float64 {
	return evaluateCost(s.p, s.bench, s.runs, s.seed)
}

func (s *pSolution) GenerateNeighbor() saalgo.Solution {
	np := s.p + (s.rng.Float64()-0.5)*0.1
	if np < 0.05 {
		np = 0.05
	}
	if np > 0.95 {
		np = 0.95
	}
	cp := *s
	cp.p = np
	return &cp
}

func main() {
	var benchPath string
	var benchDir string
	var pMin, pMax, pStep float64
	var runs int
	var seed int64
	var outputCSV string
	var useSA bool
	var saIters int

	flag.StringVar(&benchPath, "bench", "", "單一 benchmark 檔案路徑")
	flag.StringVar(&benchDir, "benchdir", "", "包含多個 benchmark 檔案的目錄 (使用所有 .bin 檔案)")
	flag.Float64Var(&pMin, "pmin", 0.1, "p 的最小值")
	flag.Float64Var(&pMax, "pmax", 0.9, "p 的最大值")
	flag.Float64Var(&pStep, "pstep", 0.05, "p 的步長")
	flag.IntVar(&runs, "runs", 3, "每組參數運行的次數（取平均值）")
	flag.Int64Var(&seed, "seed", 42, "隨機種子")
	flag.StringVar(&outputCSV, "csv", "", "輸出 CSV 檔案路徑（選填）")
	flag.BoolVar(&useSA, "sa", false, "網格搜索後以模擬退火細化")
	flag.IntVar(&saIters, "sa.iters", 200, "模擬退火最大迭代次數")
	flag.Parse()

	// 收集 benchmark 檔案
	var benchFiles []string

	if benchDir != "" {
		files, err := filepath.Glob(filepath.Join(benchDir, "*.bin"))
		if err != nil {
			log.Fatalf("掃描目錄失敗: %v", err)
		}
		if len(files) == 0 {
			log.Fatalf("目錄中找不到 .bin 檔案: %s", benchDir)
		}
		benchFiles = files
	} else if benchPath != "" {
		benchFiles = []string{benchPath}
	} else {
		log.Fatal("請提供 -bench 或 -benchdir 參數")
	}

	loadedBenchmarks := make([]*datastream.BenchFile, 0, len(benchFiles))
	totalOps := 0

	fmt.Printf("=== 升層機率 p 參數優化 ===\n\n")
	fmt.Printf("載入 %d 個 benchmark 檔案...\n", len(benchFiles))

	for _, fpath := range benchFiles {
		bf, err := datastream.ReadBenchFile(fpath)
		if err != nil {
			log.Fatalf("讀取 benchmark 檔案失敗 %s: %v", fpath, err)
		}
		loadedBenchmarks = append(loadedBenchmarks, bf)
		totalOps += len(bf.Ops)
		fmt.Printf("  - %s: %d 操作\n", filepath.Base(fpath), len(bf.Ops))
	}

	fmt.Printf("\n總計: %d 檔案, %d 操作\n", len(loadedBenchmarks), totalOps)
	fmt.Printf("\n搜索範圍: p ∈ [%.2f, %.2f], 步長 %.3f, 每組運行 %d 次\n\n", pMin, pMax, pStep, runs)

	// CSV 輸出準備
	var csvWriter *csv.Writer
	if outputCSV != "" {
		csvFile, err := os.Create(outputCSV)
		if err != nil {
			log.Fatalf("無法創建 CSV 檔案: %v", err)
		}
		defer csvFile.Close()

		csvWriter = csv.NewWriter(csvFile)
		defer csvWriter.Flush()

		csvWriter.Write([]string{"p", "cost_ms"})
	}

	// 網格搜索
	bestP := pMin
	bestCost := math.Inf(1)

	startTime := time.Now()

	for p := pMin; p <= pMax+0.0001; p += pStep { // 加小量避免浮點誤差
		cost := evaluateCost(p, loadedBenchmarks, runs, seed)

		if csvWriter != nil {
			csvWriter.Write([]string{
				fmt.Sprintf("%.6f", p),
				fmt.Sprintf("%.3f", cost),
			})
		}

		marker := ""
		if cost < bestCost {
			marker = " ✓ 新最佳!"
			bestP = p
			bestCost = cost
		}
		fmt.Printf("p=%.4f → %7.3f ms%s\n", p, cost, marker)
	}

	// 模擬退火細化
	if useSA {
		fmt.Printf("\n以模擬退火在 p=%.4f 附近細化...\n", bestP)
		sa := saalgo.NewSimulatedAnnealing(&saalgo.SAConfig{
			InitialTemp:   bestCost * 0.1,
			FinalTemp:     bestCost * 0.001,
			CoolingRate:   0.9,
			Iterations:    10,
			MaxIterations: saIters,
			RandomSeed:    seed,
			ProgressCallback: func(iter, maxIter int, temp, best, cur float64) {
				fmt.Printf("  [%d/%d] T=%.3f best=%.3f cur=%.3f\n", iter, maxIter, temp, best, cur)
			},
			ProgressInterval: 20,
		})
		init := &pSolution{
			p:     bestP,
			bench: loadedBenchmarks,
			runs:  runs,
			seed:  seed,
			rng:   rand.New(rand.NewSource(seed)),
		}
		sol, cost := sa.Run(init)
		if cost < bestCost {
			bestP = sol.(*pSolution).p
			bestCost = cost
		}
	}

	elapsed := time.Since(startTime)

	fmt.Printf("\n=== 搜索完成 ===\n")
	fmt.Printf("總耗時: %.2f 分鐘 (%.1f 秒)\n", elapsed.Minutes(), elapsed.Seconds())
	fmt.Printf("\n最佳參數:\n")
	fmt.Printf("  p    = %.6f\n", bestP)
	fmt.Printf("  成本 = %.3f ms\n", bestCost)

	// 與預設參數比較
	fmt.Printf("\n與預設參數 (p=0.5) 比較:\n")
	defaultCost := evaluateCost(0.5, loadedBenchmarks, runs, seed)
	fmt.Printf("  預設成本: %.3f ms\n", defaultCost)
	improvement := (defaultCost - bestCost) / defaultCost * 100.0
	if improvement > 0 {
		fmt.Printf("  改善: %.2f%% ✓\n", improvement)
	} else {
		fmt.Printf("  變化: %.2f%%\n", improvement)
	}

	fmt.Printf("\n使用方式:\n")
	fmt.Printf("  sl := ordered.NewWith(cmp.Less[int64], %.6f, seed)\n", bestP)

	if outputCSV != "" {
		fmt.Printf("\nCSV 結果已保存至: %s\n", outputCSV)
	}
}
