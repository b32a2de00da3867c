package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"diabetes-prediction-service/internal/core/domain"
)

// SamplePatient is the reference request used across handler and service tests.
var SamplePatient = domain.PatientRecord{
	Pregnancies:              2,
	Glucose:                  120,
	BloodPressure:            70,
	SkinThickness:            20,
	Insulin:                  80,
	BMI:                      25.5,
	DiabetesPedigreeFunction: 0.5,
	Age:                      33,
}

// SyntheticDataset returns n deterministic rows whose outcome depends mostly
// on glucose and BMI. Every third row is diabetic.
func SyntheticDataset(n int) *domain.Dataset {
	ds := &domain.Dataset{Features: domain.FeatureNames()}
	for i := 0; i < n; i++ {
		outcome := 0
		if i%3 == 0 {
			outcome = 1
		}
		glucose := 90.0 + float64(i%17)
		bmi := 22.0 + float64(i%7)*0.5
		if outcome == 1 {
			glucose += 60
			bmi += 8
		}
		ds.X = append(ds.X, []float64{
			float64(i % 6),
			glucose,
			60 + float64(i%20),
			15 + float64(i%10),
			50 + float64(i%40),
			bmi,
			0.2 + float64(i%9)*0.05,
			21 + float64(i%40),
		})
		ds.Y = append(ds.Y, outcome)
	}
	return ds
}

// WriteCSV writes ds under dir with the given header, returning the file path.
// Columns missing from header are left out of every row.
func WriteCSV(t *testing.T, dir string, header []string, ds *domain.Dataset) string {
	t.Helper()

	col := make(map[string]int, len(ds.Features))
	for i, name := range ds.Features {
		col[name] = i
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteString("\n")
	for r, row := range ds.X {
		cells := make([]string, len(header))
		for i, name := range header {
			switch {
			case name == domain.OutcomeColumn:
				cells[i] = fmt.Sprint(ds.Y[r])
			default:
				if j, ok := col[name]; ok {
					cells[i] = fmt.Sprint(row[j])
				}
			}
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}

	path := filepath.Join(dir, "diabetes.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

// DatasetHeader is the canonical CSV header.
func DatasetHeader() []string {
	return append(domain.FeatureNames(), domain.OutcomeColumn)
}
