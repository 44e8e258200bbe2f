package saalgo

import (
	"math"
	"math/rand"
	"testing"
)

// quadSolution 一維二次函數 (x-3)^2 的解，最小值在 x = 3
type quadSolution struct {
	x   float64
	rng *rand.Rand
}

func (s *quadSolution) Clone() Solution {
	cp := *s
	return &cp
}

func (s *quadSolution) GetCost() float64 {
	return (s.x - 3.0) * (s.x - 3.0)
}

func (s *quadSolution) GenerateNeighbor() Solution {
	cp := *s
	cp.x += (s.rng.Float64() - 0.5) * 2.0
	return &cp
}

func TestSimulatedAnnealingConverges(t *testing.T) {
	sa := NewSimulatedAnnealing(&SAConfig{
		InitialTemp:   100.0,
		FinalTemp:     0.001,
		CoolingRate:   0.9,
		Iterations:    50,
		MaxIterations: 20000,
		RandomSeed:    42,
	})

	init := &quadSolution{x: -50.0, rng: rand.New(rand.NewSource(42))}
	initCost := init.GetCost()

	best, cost := sa.Run(init)

	if cost > initCost {
		t.Fatalf("最佳成本 %f 不應高於初始成本 %f", cost, initCost)
	}
	if math.Abs(best.(*quadSolution).x-3.0) > 1.0 {
		t.Errorf("最佳解應接近 3，得到 %f", best.(*quadSolution).x)
	}
	if sa.GetBestCost() != cost {
		t.Error("GetBestCost 與 Run 回傳值不一致")
	}
	if sa.GetIterations() == 0 {
		t.Error("迭代次數不應為 0")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.InitialTemp <= cfg.FinalTemp {
		t.Error("初始溫度應高於最終溫度")
	}
	if cfg.CoolingRate <= 0 || cfg.CoolingRate >= 1 {
		t.Errorf("冷卻率應落在 (0, 1)，得到 %f", cfg.CoolingRate)
	}

	// nil config 應使用預設值
	sa := NewSimulatedAnnealing(nil)
	if sa.config == nil {
		t.Fatal("config 不應為 nil")
	}
}
