package csvdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"diabetes-prediction-service/internal/core/domain"
)

// Reader loads a training dataset from a CSV file with a header row. Columns
// other than the features and the outcome are ignored.
type Reader struct {
	path     string
	features []string
	target   string
}

func NewReader(path string) *Reader {
	return &Reader{path: path, features: domain.FeatureNames(), target: domain.OutcomeColumn}
}

func (r *Reader) Read(ctx context.Context) (*domain.Dataset, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, r.path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return r.decode(ctx, f)
}

func (r *Reader) decode(ctx context.Context, src io.Reader) (*domain.Dataset, error) {
	cr := csv.NewReader(src)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrEmptyDataset
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	featureCols := make([]int, len(r.features))
	var missing []string
	for i, name := range r.features {
		col, ok := index[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		featureCols[i] = col
	}
	targetCol, ok := index[r.target]
	if !ok {
		missing = append(missing, r.target)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, strings.Join(missing, ", "))
	}

	ds := &domain.Dataset{Features: append([]string(nil), r.features...)}
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		row := make([]float64, len(featureCols))
		for i, col := range featureCols {
			v, err := parseCell(record, col)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %v", domain.ErrInvalidValue, line, r.features[i], err)
			}
			row[i] = v
		}
		outcome, err := parseCell(record, targetCol)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d column %s: %v", domain.ErrInvalidValue, line, r.target, err)
		}
		if outcome != domain.ClassNonDiabetic && outcome != domain.ClassDiabetic {
			return nil, fmt.Errorf("%w: line %d column %s: %v is not 0 or 1", domain.ErrInvalidValue, line, r.target, outcome)
		}

		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, int(outcome))
	}

	if ds.Len() == 0 {
		return nil, domain.ErrEmptyDataset
	}

	log.WithFields(log.Fields{
		"path": r.path,
		"rows": ds.Len(),
	}).Info("dataset loaded")

	return ds, nil
}

func parseCell(record []string, col int) (float64, error) {
	if col >= len(record) {
		return 0, errors.New("missing value")
	}
	raw := strings.TrimSpace(record[col])
	if raw == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", raw)
	}
	return v, nil
}
