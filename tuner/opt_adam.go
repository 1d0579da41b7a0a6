package tuner

import (
	"math"

	"hive-engine/engine"
	gm "hive-engine/hivemg"
)

// Adam keeps per-parameter moment estimates over the flattened weight
// vector. Its state is part of a checkpoint so a run can resume.
type Adam struct {
	M, V  []float64 // first and second moments
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64
	T     int // steps taken, for bias correction

	// Scale multiplies LR per parameter. Nil means 1 everywhere. It comes
	// from the run configuration and is not checkpointed.
	Scale []float64
}

func NewAdam(numParams int, lr float64) *Adam {
	return &Adam{
		M:     make([]float64, numParams),
		V:     make([]float64, numParams),
		LR:    lr,
		Beta1: 0.9,
		Beta2: 0.999,
		Eps:   1e-8,
	}
}

// Step moves params against grads in place. Parameters with a zero
// gradient keep their moments untouched.
func (opt *Adam) Step(params []float64, grads []float64) {
	opt.T++
	bc1 := 1.0 - math.Pow(opt.Beta1, float64(opt.T))
	bc2 := 1.0 - math.Pow(opt.Beta2, float64(opt.T))
	scaled := len(opt.Scale) == len(params)

	for i, g := range grads {
		if g == 0 {
			continue
		}
		opt.M[i] = opt.Beta1*opt.M[i] + (1-opt.Beta1)*g
		opt.V[i] = opt.Beta2*opt.V[i] + (1-opt.Beta2)*g*g

		lr := opt.LR
		if scaled {
			lr *= opt.Scale[i]
		}
		params[i] -= lr * (opt.M[i] / bc1) / (math.Sqrt(opt.V[i]/bc2) + opt.Eps)
	}
}

// queenStepScale slows the Queen Bee terms by factor in both phases and
// leaves every other weight at full rate.
func queenStepScale(factor float64) []float64 {
	var w engine.MetricWeights
	for bt := range w.Start {
		for m := range w.Start[bt] {
			w.Start[bt][m], w.End[bt][m] = 1, 1
		}
	}
	for m := range w.Start[gm.QueenBee] {
		w.Start[gm.QueenBee][m], w.End[gm.QueenBee][m] = factor, factor
	}
	return w.Flatten()
}
