package services

import (
	"fmt"
	"sort"
	"strings"
)

// ClassMetrics holds per-label evaluation scores.
type ClassMetrics struct {
	Label     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// ClassificationReport summarises predictions against held-out labels.
type ClassificationReport struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
	Total       int
}

// NewClassificationReport scores predicted against actual. Labels seen in
// either slice get a row; undefined ratios are reported as 0.
func NewClassificationReport(actual, predicted []int) (*ClassificationReport, error) {
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("report: %d labels but %d predictions", len(actual), len(predicted))
	}

	seen := make(map[int]struct{})
	for i := range actual {
		seen[actual[i]] = struct{}{}
		seen[predicted[i]] = struct{}{}
	}
	labels := make([]int, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	report := &ClassificationReport{Total: len(actual)}
	correct := 0
	for i := range actual {
		if actual[i] == predicted[i] {
			correct++
		}
	}
	if report.Total > 0 {
		report.Accuracy = float64(correct) / float64(report.Total)
	}

	for _, label := range labels {
		var tp, fp, fn int
		for i := range actual {
			switch {
			case predicted[i] == label && actual[i] == label:
				tp++
			case predicted[i] == label:
				fp++
			case actual[i] == label:
				fn++
			}
		}
		m := ClassMetrics{
			Label:     label,
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes = append(report.Classes, m)
	}

	report.MacroAvg.Support = report.Total
	report.WeightedAvg.Support = report.Total
	if k := len(report.Classes); k > 0 {
		for _, m := range report.Classes {
			report.MacroAvg.Precision += m.Precision / float64(k)
			report.MacroAvg.Recall += m.Recall / float64(k)
			report.MacroAvg.F1 += m.F1 / float64(k)
			if report.Total > 0 {
				w := float64(m.Support) / float64(report.Total)
				report.WeightedAvg.Precision += m.Precision * w
				report.WeightedAvg.Recall += m.Recall * w
				report.WeightedAvg.F1 += m.F1 * w
			}
		}
	}

	return report, nil
}

// String renders the report as a fixed-width table.
func (r *ClassificationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%12s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	for _, m := range r.Classes {
		fmt.Fprintf(&b, "%12d %10.2f %10.2f %10.2f %10d\n", m.Label, m.Precision, m.Recall, m.F1, m.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", r.Accuracy, r.Total)
	fmt.Fprintf(&b, "%12s %10.2f %10.2f %10.2f %10d\n", "macro avg", r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1, r.MacroAvg.Support)
	fmt.Fprintf(&b, "%12s %10.2f %10.2f %10.2f %10d\n", "weighted avg", r.WeightedAvg.Precision, r.WeightedAvg.Recall, r.WeightedAvg.F1, r.WeightedAvg.Support)
	return b.String()
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
