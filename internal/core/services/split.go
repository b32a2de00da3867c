package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"diabetes-prediction-service/internal/core/domain"
)

// Split holds row indices of the train and test subsets, each sorted ascending.
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions row indices so every label keeps its share of
// rows in both subsets. The same labels, testSize and seed always produce the
// same split.
func StratifiedSplit(labels []int, testSize float64, seed int64) (*Split, error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, fmt.Errorf("%w: got %v", domain.ErrInvalidTestSize, testSize)
	}
	n := len(labels)
	if n == 0 {
		return nil, domain.ErrEmptyDataset
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain == 0 {
		return nil, fmt.Errorf("%w: %d rows with test size %v", domain.ErrEmptySubset, n, testSize)
	}

	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for label, rows := range byClass {
		if len(rows) < 2 {
			return nil, fmt.Errorf("%w: class %d has %d", domain.ErrClassTooSmall, label, len(rows))
		}
		classes = append(classes, label)
	}
	sort.Ints(classes)
	if nTest < len(classes) || nTrain < len(classes) {
		return nil, fmt.Errorf("%w: %d classes do not fit into %d/%d rows", domain.ErrEmptySubset, len(classes), nTrain, nTest)
	}

	testCounts := allocate(classes, byClass, nTest, n)

	rng := rand.New(rand.NewSource(seed))
	split := &Split{
		Train: make([]int, 0, nTrain),
		Test:  make([]int, 0, nTest),
	}
	for _, label := range classes {
		rows := append([]int(nil), byClass[label]...)
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		k := testCounts[label]
		split.Test = append(split.Test, rows[:k]...)
		split.Train = append(split.Train, rows[k:]...)
	}
	sort.Ints(split.Train)
	sort.Ints(split.Test)

	return split, nil
}

// allocate distributes nTest rows across classes proportionally to their size
// using the largest remainder method. Every class keeps at least one row on
// each side.
func allocate(classes []int, byClass map[int][]int, nTest, n int) map[int]int {
	type share struct {
		label     int
		remainder float64
	}

	counts := make(map[int]int, len(classes))
	shares := make([]share, 0, len(classes))
	assigned := 0
	for _, label := range classes {
		exact := float64(nTest) * float64(len(byClass[label])) / float64(n)
		whole := int(math.Floor(exact))
		counts[label] = whole
		assigned += whole
		shares = append(shares, share{label: label, remainder: exact - float64(whole)})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].remainder > shares[j].remainder
	})
	for i := 0; assigned < nTest; i = (i + 1) % len(shares) {
		label := shares[i].label
		if counts[label] < len(byClass[label])-1 {
			counts[label]++
			assigned++
		}
	}

	// Move rows so no class is absent from either subset.
	for _, label := range classes {
		if counts[label] > 0 {
			continue
		}
		for _, donor := range shares {
			if counts[donor.label] > 1 {
				counts[donor.label]--
				counts[label] = 1
				break
			}
		}
	}
	return counts
}
