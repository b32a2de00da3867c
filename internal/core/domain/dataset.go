package domain

// Dataset is a fully parsed training table. X rows follow the Features order.
type Dataset struct {
	Features []string
	X        [][]float64
	Y        []int
}

func (d *Dataset) Len() int {
	return len(d.Y)
}

// Subset returns the rows at the given indices, in index order.
func (d *Dataset) Subset(indices []int) ([][]float64, []int) {
	x := make([][]float64, len(indices))
	y := make([]int, len(indices))
	for i, idx := range indices {
		x[i] = d.X[idx]
		y[i] = d.Y[idx]
	}
	return x, y
}
