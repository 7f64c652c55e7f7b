package frame

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-errors/errors"
)

// StratifyNone disables stratification when passed as the stratify column.
const StratifyNone = "none"

// Split partitions a frame and its target into train and validation views.
// The validation partition holds floor(n*valFrac + 0.5) rows. When stratifyBy
// names a column, rows are apportioned so each stratum contributes to the
// validation partition in proportion to its size. The same seed always yields
// the same row identities in each partition.
func Split(f *Frame, y []float64, valFrac float64, stratifyBy string, seed int64) (trainX, valX *Frame, trainY, valY []float64, err error) {
	if len(y) != f.Len() {
		return nil, nil, nil, nil, errors.Errorf("target has %d rows, frame has %d", len(y), f.Len())
	}
	if valFrac <= 0 || valFrac >= 1 {
		return nil, nil, nil, nil, errors.Errorf("validation fraction %f must be in (0, 1)", valFrac)
	}

	rnd := rand.New(rand.NewSource(seed))
	nVal := int(math.Floor(valFrac*float64(f.Len()) + 0.5))
	if nVal < 1 || nVal >= f.Len() {
		return nil, nil, nil, nil, errors.Errorf("validation fraction %f leaves no rows to train on", valFrac)
	}

	var valRows []int
	if stratifyBy == StratifyNone || stratifyBy == "" {
		rows := rnd.Perm(f.Len())
		valRows = rows[:nVal]
		sort.Ints(valRows)
	} else {
		valRows, err = stratifiedRows(f, stratifyBy, nVal, rnd)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}

	inVal := make(map[int]bool, len(valRows))
	for _, r := range valRows {
		inVal[r] = true
	}
	trainRows := make([]int, 0, f.Len()-nVal)
	for r := 0; r < f.Len(); r++ {
		if !inVal[r] {
			trainRows = append(trainRows, r)
		}
	}

	trainX, valX = f.Subset(trainRows), f.Subset(valRows)
	trainY, valY = make([]float64, len(trainRows)), make([]float64, len(valRows))
	for i, r := range trainRows {
		trainY[i] = y[r]
	}
	for i, r := range valRows {
		valY[i] = y[r]
	}
	return trainX, valX, trainY, valY, nil
}

// stratifiedRows selects nVal validation rows, spreading the count over the
// strata of the given column by largest remainder.
func stratifiedRows(f *Frame, column string, nVal int, rnd *rand.Rand) ([]int, error) {
	c, err := f.Col(column)
	if err != nil {
		return nil, err
	}

	strata := make(map[string][]int)
	for r := 0; r < c.Len(); r++ {
		strata[c.Value(r)] = append(strata[c.Value(r)], r)
	}
	keys := make([]string, 0, len(strata))
	for k := range strata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type share struct {
		key       string
		count     int
		remainder float64
	}
	shares := make([]share, len(keys))
	total := 0
	for i, k := range keys {
		exact := float64(len(strata[k])) * float64(nVal) / float64(c.Len())
		shares[i] = share{key: k, count: int(exact), remainder: exact - math.Floor(exact)}
		total += shares[i].count
	}
	// Hand out the rows lost to flooring, biggest remainder first.
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return shares[order[i]].remainder > shares[order[j]].remainder
	})
	for i := 0; total < nVal && i < len(order); i++ {
		s := &shares[order[i]]
		if s.count < len(strata[s.key]) {
			s.count++
			total++
		}
	}

	var rows []int
	for _, s := range shares {
		members := append([]int(nil), strata[s.key]...)
		rnd.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
		rows = append(rows, members[:s.count]...)
	}
	sort.Ints(rows)
	return rows, nil
}
