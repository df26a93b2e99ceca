package predict

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ForestConfig sizes the random forest regressor.
type ForestConfig struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

// Forest is an ensemble of bootstrap-sampled regression trees. All
// randomness comes from its own seeded source, so a fixed config trains
// identically on identical data.
type Forest struct {
	cfg   ForestConfig
	trees []*treeNode
}

func NewForest(cfg ForestConfig) *Forest {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 6
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = 2
	}
	return &Forest{cfg: cfg}
}

func (f *Forest) Kind() string { return "RandomForest" }

func (f *Forest) Fit(rows [][]float64, targets []float64) error {
	n := len(rows)
	if n == 0 || len(targets) != n {
		return fmt.Errorf("%w: %d rows, %d targets", ErrTrainingFailed, n, len(targets))
	}

	rng := rand.New(rand.NewSource(f.cfg.Seed))
	f.trees = make([]*treeNode, 0, f.cfg.Trees)

	sampleX := make([][]float64, n)
	sampleY := make([]float64, n)
	for t := 0; t < f.cfg.Trees; t++ {
		for i := 0; i < n; i++ {
			k := rng.Intn(n)
			sampleX[i] = rows[k]
			sampleY[i] = targets[k]
		}
		f.trees = append(f.trees, buildTree(sampleX, sampleY, f.cfg.MaxDepth, f.cfg.MinLeaf))
	}
	return nil
}

func (f *Forest) Predict(row []float64) float64 {
	sum := 0.0
	for _, t := range f.trees {
		sum += t.predict(row)
	}
	return sum / float64(len(f.trees))
}

// treeNode is one node of a CART regression tree. Leaves carry the mean
// target of their partition.
type treeNode struct {
	feature     int
	threshold   float64
	left, right *treeNode
	value       float64
	leaf        bool
}

func buildTree(rows [][]float64, targets []float64, depth, minLeaf int) *treeNode {
	if depth <= 0 || len(rows) < 2*minLeaf || constant(targets) {
		return &treeNode{leaf: true, value: mean(targets)}
	}

	feature, threshold, ok := bestSplit(rows, targets, minLeaf)
	if !ok {
		return &treeNode{leaf: true, value: mean(targets)}
	}

	var lx, rx [][]float64
	var ly, ry []float64
	for i, row := range rows {
		if row[feature] <= threshold {
			lx = append(lx, row)
			ly = append(ly, targets[i])
		} else {
			rx = append(rx, row)
			ry = append(ry, targets[i])
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(lx, ly, depth-1, minLeaf),
		right:     buildTree(rx, ry, depth-1, minLeaf),
	}
}

// bestSplit scans every feature and candidate threshold for the split with
// the lowest weighted sum of squared errors.
func bestSplit(rows [][]float64, targets []float64, minLeaf int) (feature int, threshold float64, ok bool) {
	n := len(rows)
	d := len(rows[0])
	best := math.Inf(1)

	order := make([]int, n)
	for j := 0; j < d; j++ {
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return rows[order[a]][j] < rows[order[b]][j] })

		// incremental SSE over the sorted order
		var lsum, lsq float64
		rsum, rsq := sums(targets)
		for i := 0; i < n-1; i++ {
			y := targets[order[i]]
			lsum += y
			lsq += y * y
			rsum -= y
			rsq -= y * y

			left, right := i+1, n-i-1
			if left < minLeaf || right < minLeaf {
				continue
			}
			cur, next := rows[order[i]][j], rows[order[i+1]][j]
			if cur == next {
				continue
			}

			sse := (lsq - lsum*lsum/float64(left)) + (rsq - rsum*rsum/float64(right))
			if sse < best {
				best = sse
				feature = j
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func (t *treeNode) predict(row []float64) float64 {
	for !t.leaf {
		if row[t.feature] <= t.threshold {
			t = t.left
		} else {
			t = t.right
		}
	}
	return t.value
}

func sums(vals []float64) (sum, sq float64) {
	for _, v := range vals {
		sum += v
		sq += v * v
	}
	return sum, sq
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum, _ := sums(vals)
	return sum / float64(len(vals))
}

func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}
