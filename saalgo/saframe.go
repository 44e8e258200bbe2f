package saalgo

import (
	"math"
	"math/rand"
	"time"
)

// Solution 表示一個解，需要實現以下接口
type Solution interface {
	// Clone 創建當前解的深拷貝
	Clone() Solution

	// GetCost 返回當前解的成本/適應度
	GetCost() float64

	// GenerateNeighbor 生成鄰居解
	GenerateNeighbor() Solution
}

// ProgressCallback 進度回報回調函數類型
type ProgressCallback func(iteration int, maxIterations int, temperature float64, bestCost float64, currentCost float64)

// SAConfig 模擬退火配置
type SAConfig struct {
	InitialTemp      float64          // 初始溫度
	FinalTemp        float64          // 最終溫度
	CoolingRate      float64          // 冷卻率
	Iterations       int              // 每個溫度的迭代次數
	MaxIterations    int              // 最大總迭代次數
	RandomSeed       int64            // 隨機種子
	ProgressCallback ProgressCallback // 進度回報回調函數（可選）
	ProgressInterval int              // 每 N 次迭代回報一次，0 表示不回報
}

// DefaultConfig 返回默認配置
func DefaultConfig() *SAConfig {
	return &SAConfig{
		InitialTemp:   1000.0,
		FinalTemp:     0.1,
		CoolingRate:   0.95,
		Iterations:    100,
		MaxIterations: 10000,
		RandomSeed:    time.Now().UnixNano(),
	}
}

// SimulatedAnnealing 模擬退火算法主結構
type SimulatedAnnealing struct {
	config     *SAConfig
	rng        *rand.Rand
	best       Solution
	bestCost   float64
	iterations int
}

// NewSimulatedAnnealing 創建新的模擬退火實例
func NewSimulatedAnnealing(config *SAConfig) *SimulatedAnnealing {
	if config == nil {
		config = DefaultConfig()
	}
	return &SimulatedAnnealing{
		config: config,
		rng:    rand.New(rand.NewSource(config.RandomSeed)),
	}
}

// Run 執行模擬退火算法，回傳最佳解與其成本
func (sa *SimulatedAnnealing) Run(initialSolution Solution) (Solution, float64) {
	current := initialSolution.Clone()
	currentCost := current.GetCost()

	sa.best = current.Clone()
	sa.bestCost = currentCost

	temperature := sa.config.InitialTemp

	for temperature > sa.config.FinalTemp && sa.iterations < sa.config.MaxIterations {
		for i := 0; i < sa.config.Iterations; i++ {
			neighbor := current.GenerateNeighbor()
			neighborCost := neighbor.GetCost()

			// 決定是否接受新解
			if sa.shouldAccept(neighborCost-currentCost, temperature) {
				current = neighbor
				currentCost = neighborCost

				if currentCost < sa.bestCost {
					sa.best = current.Clone()
					sa.bestCost = currentCost
				}
			}

			sa.iterations++

			if sa.config.ProgressCallback != nil && sa.config.ProgressInterval > 0 &&
				sa.iterations%sa.config.ProgressInterval == 0 {
				sa.config.ProgressCallback(sa.iterations, sa.config.MaxIterations, temperature, sa.bestCost, currentCost)
			}

			if sa.iterations >= sa.config.MaxIterations {
				break
			}
		}

		// 冷卻
		temperature *= sa.config.CoolingRate
	}

	return sa.best, sa.bestCost
}

// shouldAccept 依 Metropolis 準則決定是否接受新解
func (sa *SimulatedAnnealing) shouldAccept(deltaCost, temperature float64) bool {
	if deltaCost < 0 {
		return true
	}
	return sa.rng.Float64() < math.Exp(-deltaCost/temperature)
}

// GetBestSolution 返回最佳解
func (sa *SimulatedAnnealing) GetBestSolution() Solution {
	return sa.best
}

// GetBestCost 返回最佳成本
func (sa *SimulatedAnnealing) GetBestCost() float64 {
	return sa.bestCost
}

// GetIterations 返回迭代次數
func (sa *SimulatedAnnealing) GetIterations() int {
	return sa.iterations
}
