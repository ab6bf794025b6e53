package pipeline

import (
	"fmt"
	"os"
)

// SizeReport compares the full reference font with its subset.
type SizeReport struct {
	Original int64
	Subset   int64
}

// Reduction is the percentage saved, (1 - subset/original) * 100.
func (s *SizeReport) Reduction() float64 {
	if s.Original <= 0 {
		return 0
	}
	return (1 - float64(s.Subset)/float64(s.Original)) * 100
}

// MeasureSize stats both files.
func MeasureSize(originalPath, subsetPath string) (*SizeReport, error) {
	orig, err := os.Stat(originalPath)
	if err != nil {
		return nil, fmt.Errorf("reference font: %w", err)
	}
	sub, err := os.Stat(subsetPath)
	if err != nil {
		return nil, fmt.Errorf("subset font: %w", err)
	}
	return &SizeReport{Original: orig.Size(), Subset: sub.Size()}, nil
}

// KB formats a byte count with one decimal, e.g. "147.3 KB".
func KB(n int64) string {
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}
