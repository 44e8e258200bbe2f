package main

import (
	"cmp"
	"flag"
	"fmt"

	"github.com/Hakuto4838/OrderedSkipList.git/datastream"
	"github.com/Hakuto4838/OrderedSkipList.git/skiplist/analyTool"
	"github.com/Hakuto4838/OrderedSkipList.git/skiplist/ordered"
)

func buildList(p float64, seed int64, kmap map[datastream.Key]float64) *ordered.List[int64] {
	sl := ordered.NewWith(cmp.Less[int64], p, seed)
	for k := range kmap {
		sl.Insert(k)
	}
	return sl
}

func inspectOne(p float64, sl *ordered.List[int64], kmap map[datastream.Key]float64) {
	fmt.Printf("=== p=%.2f ===\n", p)
	score, _ := analyTool.AnalyzeStep[int64](sl, kmap)
	fmt.Printf("score: %.6f\n", score)
	if !analyTool.CheckStruct[int64](sl) {
		fmt.Println("結構檢查失敗!")
	}
	analyTool.PrintSkipList[int64](sl, 8, 35)
	analyTool.CountLevel[int64](sl)
	fmt.Println()
}

func main() {
	var n int
	var s float64
	var v float64
	var seed int64

	flag.IntVar(&n, "n", 900, "number of keys")
	flag.Float64Var(&s, "s", 1.07, "Zipf parameter s")
	flag.Float64Var(&v, "v", 1.0, "Zipf parameter v")
	flag.Int64Var(&seed, "seed", 42, "random seed")
	flag.Parse()

	// 以 Zipf 權重作為查詢分布來評估結構
	gen := datastream.NewZipfDataGenerator(n, s, v, seed)
	kmap := gen.GetKeyMap()

	for _, p := range []float64{0.25, 0.5, 0.75} {
		sl := buildList(p, seed, kmap)
		inspectOne(p, sl, kmap)
	}
}
