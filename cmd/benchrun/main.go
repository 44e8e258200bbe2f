package main

import (
	"cmp"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Hakuto4838/OrderedSkipList.git/datastream"
	"github.com/Hakuto4838/OrderedSkipList.git/skiplist/analyTool"
	"github.com/Hakuto4838/OrderedSkipList.git/skiplist/ordered"
	"github.com/olekukonko/tablewriter"
)

func main() {
	// Input: either provide -file, -dir, or provide -out and generation params
	var file string
	var dir string
	var out string
	var n int
	var s float64
	var v float64
	var k int
	var seed int64
	var phase1Ratio float64
	var deleteRatio float64

	var probs string
	var runs int

	flag.StringVar(&file, "file", "", "existing bench streamfile (OSBENCH1 format)")
	flag.StringVar(&dir, "dir", "", "directory containing bench files to test (will test all .bin files)")
	flag.StringVar(&out, "out", "", "output path to write generated bench streamfile")
	flag.IntVar(&n, "n", 0, "number of keys for Zipf generator")
	flag.Float64Var(&s, "s", 1.07, "Zipf parameter s (0 = uniform)")
	flag.Float64Var(&v, "v", 1.0, "Zipf parameter v")
	flag.IntVar(&k, "k", 0, "number of operations to generate")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for generators/structures where applicable")
	flag.Float64Var(&phase1Ratio, "phase1Ratio", 0.5, "ratio of phase1 operations")
	flag.Float64Var(&deleteRatio, "deleteRatio", 0.1, "ratio of delete operations")

	flag.StringVar(&probs, "p", "0.25,0.5,0.75", "comma list of promotion probabilities to benchmark")
	flag.IntVar(&runs, "runs", 5, "how many times to repeat each benchmark")
	flag.Parse()

	var benchPaths []string

	// 判斷模式: -dir 優先於 -file
	if dir != "" {
		files, err := collectBenchFilesFromDir(dir)
		if err != nil {
			log.Fatalf("scan directory %s: %v", dir, err)
		}
		if len(files) == 0 {
			log.Fatalf("no .bin files found in directory: %s", dir)
		}
		benchPaths = files
		fmt.Printf("Found %d bench files in directory: %s\n", len(benchPaths), dir)
	} else if file != "" {
		benchPaths = []string{file}
		fmt.Printf("bench_file: %s\n", file)
	} else {
		if out == "" {
			log.Fatalf("either -file, -dir, or -out with generation params (-n,-s,-v,-k,-seed) must be provided")
		}
		if n <= 0 || k < 0 {
			log.Fatalf("invalid -n or -k: n=%d k=%d", n, k)
		}
		fmt.Printf("generated bench_file: %s\n", out)
		if _, err := datastream.WriteBenchFile(n, s, v, uint64(seed), k, phase1Ratio, deleteRatio, out, false); err != nil {
			log.Fatalf("generate bench file: %v", err)
		}
		benchPaths = []string{out}
	}

	toRun := parseProbs(probs)
	fmt.Printf("promotion probabilities to test: %v\n", toRun)
	fmt.Println(strings.Repeat("=", 80))

	// 如果是多個檔案，匯總統計
	if len(benchPaths) > 1 {
		runBatchBenchmark(benchPaths, toRun, runs, seed)
	} else {
		runBenchmark(benchPaths[0], toRun, runs, seed)
	}
}

// collectBenchFilesFromDir 收集指定目錄下所有 .bin 檔案
func collectBenchFilesFromDir(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".bin" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// 排序檔案名稱以確保順序一致
	sort.Strings(files)
	return files, nil
}

// runBatchBenchmark 對多個 benchmark 檔案執行測試並匯總統計
func runBatchBenchmark(benchPaths []string, toRun []float64, runs int, seed int64) {
	fmt.Printf("Testing %d benchmark files...\n\n", len(benchPaths))

	type probStats struct {
		avgMsList []float64
		minMsList []float64
		maxMsList []float64
		opsList   []int
		stepsList []float64
		totalRuns int
	}

	allStats := make(map[float64]*probStats)
	for _, p := range toRun {
		allStats[p] = &probStats{
			avgMsList: make([]float64, 0, len(benchPaths)),
			minMsList: make([]float64, 0, len(benchPaths)),
			maxMsList: make([]float64, 0, len(benchPaths)),
			opsList:   make([]int, 0, len(benchPaths)),
			stepsList: make([]float64, 0, len(benchPaths)),
		}
	}

	for idx, benchPath := range benchPaths {
		fmt.Printf("[%d/%d] Testing: %s\n", idx+1, len(benchPaths), filepath.Base(benchPath))

		bf, err := datastream.ReadBenchFile(benchPath)
		if err != nil {
			log.Printf("  ERROR reading bench file: %v\n", err)
			continue
		}

		fmt.Printf("  ops: %d, entropy: %.6f\n", len(bf.Ops), datastream.EntropyFromDist(bf.Dist))

		for _, p := range toRun {
			fmt.Printf("  - benchmarking p=%.2f...\n", p)
			stats := benchmarkProb(bf, p, runs, seed)

			allStats[p].avgMsList = append(allStats[p].avgMsList, stats.avgMs)
			allStats[p].minMsList = append(allStats[p].minMsList, stats.minMs)
			allStats[p].maxMsList = append(allStats[p].maxMsList, stats.maxMs)
			allStats[p].opsList = append(allStats[p].opsList, len(bf.Ops))
			if !math.IsNaN(stats.avgSteps) {
				allStats[p].stepsList = append(allStats[p].stepsList, stats.avgSteps)
			}
			allStats[p].totalRuns += runs
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("AGGREGATE STATISTICS (across all benchmark files)")
	fmt.Println(strings.Repeat("=", 80))

	rows := make([][]string, 0, len(toRun))
	for _, p := range toRun {
		stats := allStats[p]
		if len(stats.avgMsList) == 0 {
			continue
		}

		avgMs := average(stats.avgMsList)
		minMs := minOf(stats.minMsList)
		maxMs := maxOf(stats.maxMsList)

		// 計算平均 ops/s
		totalOps := 0
		totalSec := 0.0
		for i, ops := range stats.opsList {
			totalOps += ops
			totalSec += stats.avgMsList[i] / 1000.0
		}
		avgThr := float64(totalOps) / totalSec

		steps := "N/A"
		if len(stats.stepsList) > 0 {
			steps = fmt.Sprintf("%.6f", average(stats.stepsList))
		}

		rows = append(rows, []string{
			fmt.Sprintf("%.2f", p),
			fmt.Sprintf("%d", stats.totalRuns),
			fmt.Sprintf("%.3f", avgMs),
			fmt.Sprintf("%.3f", minMs),
			fmt.Sprintf("%.3f", maxMs),
			fmt.Sprintf("%.2f", avgThr),
			steps,
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"P", "Total Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Avg Ops/s", "AvgSteps"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

// runBenchmark 執行單一 benchmark 檔案的測試
func runBenchmark(benchPath string, toRun []float64, runs int, seed int64) {
	bf, err := datastream.ReadBenchFile(benchPath)
	if err != nil {
		log.Printf("ERROR reading bench file %s: %v", benchPath, err)
		return
	}

	fmt.Printf("bench_file: %s\n", benchPath)
	fmt.Printf("ops: %d\n", len(bf.Ops))
	fmt.Printf("entropy: %.6f\n", datastream.EntropyFromDist(bf.Dist))

	rows := make([][]string, 0, len(toRun))
	for _, p := range toRun {
		fmt.Printf("benchmarking p=%.2f...\n", p)
		stats := benchmarkProb(bf, p, runs, seed)
		thr := float64(len(bf.Ops)) / (stats.avgMs / 1000.0)
		steps := "N/A"
		if !math.IsNaN(stats.avgSteps) {
			steps = fmt.Sprintf("%.6f", stats.avgSteps)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%.2f", p),
			fmt.Sprintf("%d", runs),
			fmt.Sprintf("%.3f", stats.avgMs),
			fmt.Sprintf("%.3f", stats.minMs),
			fmt.Sprintf("%.3f", stats.maxMs),
			fmt.Sprintf("%.2f", thr),
			steps,
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"P", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s", "AvgSteps"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

// 輔助函數：計算平均值
func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// 輔助函數：找最小值
func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// 輔助函數：找最大值
func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

type benchStats struct {
	avgMs    float64
	minMs    float64
	maxMs    float64
	avgSteps float64 // from one run (structure-dependent), NaN if not analyzable
}

func benchmarkProb(bf *datastream.BenchFile, p float64, runs int, seed int64) benchStats {
	durations := make([]float64, 0, runs)
	var sampleSteps = math.NaN()
	for i := 0; i < runs; i++ {
		sl := ordered.NewWith(cmp.Less[int64], p, seed+int64(i))
		elapsed := runOpsAndTime(sl, bf)
		durations = append(durations, float64(elapsed.Microseconds())/1000.0)
		if math.IsNaN(sampleSteps) {
			steps, _ := analyTool.AnalyzeStep[int64](sl, bf.Dist)
			sampleSteps = steps
		}
	}
	sort.Float64s(durations)
	sum := 0.0
	for _, v := range durations {
		sum += v
	}
	avg := sum / float64(len(durations))
	return benchStats{
		avgMs:    avg,
		minMs:    durations[0],
		maxMs:    durations[len(durations)-1],
		avgSteps: sampleSteps,
	}
}

func runOpsAndTime(sl *ordered.List[int64], bf *datastream.BenchFile) time.Duration {
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
	return time.Since(start)
}

func parseProbs(s string) []float64 {
	defaults := []float64{0.25, 0.5, 0.75}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	seen := map[float64]bool{}
	for _, part := range parts {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		p, err := strconv.ParseFloat(t, 64)
		if err != nil || p <= 0 || p >= 1 || seen[p] {
			continue
		}
		out = append(out, p)
		seen[p] = true
	}
	if len(out) == 0 {
		return defaults
	}
	return out
}
