package engine

// Sample pairs the static evaluation of an interior node with the value the
// search backed up to it.
type Sample struct {
	Features FeatureVector
	Static   float64
	Target   float64
}

// sampleNode records the node under the worker's board if it is a useful
// training target: exact, non-terminal and below the win range.
func (w *worker) sampleNode(value int) {
	if !w.treeStrap || len(w.samples) >= w.maxSamples || isWinScore(value) {
		return
	}
	f := Features(w.board)
	w.samples = append(w.samples, Sample{
		Features: f,
		Static:   w.weights.Dot(&f),
		Target:   float64(value),
	})
	w.stats.TreeStrapSamples++
}

// TreeStrapGradient returns the gradient of half the mean squared error
// between static and backed-up values with respect to the flattened
// weights, and the mean squared error itself. Static values are taken as recorded, so the samples must
// come from the weights the gradient is applied to.
func TreeStrapGradient(samples []Sample) (grad []float64, loss float64) {
	grad = make([]float64, NumWeights)
	if len(samples) == 0 {
		return grad, 0
	}
	for i := range samples {
		s := &samples[i]
		diff := s.Static - s.Target
		loss += diff * diff
		for j, f := range s.Features {
			if f != 0 {
				grad[j] += diff * f
			}
		}
	}
	n := float64(len(samples))
	for j := range grad {
		grad[j] /= n
	}
	return grad, loss / n
}

// ApplyGradient takes one plain gradient step and returns the new weights.
func ApplyGradient(w MetricWeights, grad []float64, rate float64) MetricWeights {
	flat := w.Flatten()
	for i := range flat {
		flat[i] -= rate * grad[i]
	}
	out, _ := MetricWeightsFromSlice(flat)
	return out
}
