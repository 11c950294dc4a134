package domain

import "errors"

var (
	// ErrUnsupportedMetric means the metric enum itself is invalid.
	// Unreachable from the parser path, which always defaults.
	ErrUnsupportedMetric = errors.New("unsupported metric")

	// ErrDataUnavailable means the KPI store was unreachable or the
	// fetch timed out.
	ErrDataUnavailable = errors.New("kpi data unavailable")

	// ErrInsufficientData means fewer than two distinct periods were
	// available, so no comparison window exists.
	ErrInsufficientData = errors.New("insufficient data for comparison")

	// ErrJobNotFound is returned when polling an unknown job id.
	ErrJobNotFound = errors.New("job not found")
)
