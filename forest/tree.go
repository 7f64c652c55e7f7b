package forest

import (
	"math/rand"
	"sort"
)

// Node is one node of a regression tree. Leaves carry the mean target of
// their training rows; internal nodes route rows on Feature <= Threshold.
type Node struct {
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
	Value     float64
	Leaf      bool
}

func (n *Node) predict(row []float64) float64 {
	for !n.Leaf {
		if row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// treeBuilder grows a single tree over a bootstrap sample. Randomness comes
// only from the builder's own source, so trees are reproducible no matter
// which order they are built in.
type treeBuilder struct {
	cfg         Config
	x           [][]float64
	y           []float64
	rnd         *rand.Rand
	importances []float64
}

func (b *treeBuilder) grow(idx []int, depth int) *Node {
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	n := float64(len(idx))
	mean := sum / n
	sse := sumSq - sum*sum/n

	leaf := &Node{Leaf: true, Value: mean}
	if len(idx) < b.cfg.MinSamplesSplit || sse <= 1e-12 {
		return leaf
	}
	if b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth {
		return leaf
	}

	feature, threshold, gain, ok := b.bestSplit(idx, sse)
	if !ok {
		return leaf
	}
	b.importances[feature] += gain

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.grow(left, depth+1),
		Right:     b.grow(right, depth+1),
		Value:     mean,
	}
}

// candidateFeatures returns the features considered for one split. With no
// configured subsampling every feature is considered in index order.
func (b *treeBuilder) candidateFeatures() []int {
	p := len(b.x[0])
	k := p
	if b.cfg.MaxFeatures > 0 && b.cfg.MaxFeatures < 1 {
		k = int(b.cfg.MaxFeatures * float64(p))
		if k < 1 {
			k = 1
		}
	}
	if k >= p {
		feats := make([]int, p)
		for i := range feats {
			feats[i] = i
		}
		return feats
	}
	return b.rnd.Perm(p)[:k]
}

type splitPoint struct {
	v float64
	y float64
}

// bestSplit finds the split with the largest reduction in the sum of squared
// errors over the candidate features. Thresholds are midpoints between
// adjacent distinct values.
func (b *treeBuilder) bestSplit(idx []int, parentSSE float64) (feature int, threshold, gain float64, ok bool) {
	points := make([]splitPoint, len(idx))
	for _, f := range b.candidateFeatures() {
		for i, r := range idx {
			points[i] = splitPoint{v: b.x[r][f], y: b.y[r]}
		}
		sort.Slice(points, func(i, j int) bool { return points[i].v < points[j].v })

		var totalSum, totalSq float64
		for _, p := range points {
			totalSum += p.y
			totalSq += p.y * p.y
		}

		var leftSum, leftSq float64
		for i := 0; i < len(points)-1; i++ {
			leftSum += points[i].y
			leftSq += points[i].y * points[i].y
			if points[i].v == points[i+1].v {
				continue
			}
			nl, nr := float64(i+1), float64(len(points)-i-1)
			if i+1 < b.cfg.MinSamplesLeaf || len(points)-i-1 < b.cfg.MinSamplesLeaf {
				continue
			}
			rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if g := parentSSE - sse; g > gain {
				feature = f
				threshold = (points[i].v + points[i+1].v) / 2
				gain = g
				ok = true
			}
		}
	}
	return feature, threshold, gain, ok
}
