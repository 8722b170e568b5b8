package rankingdomain

import "errors"

// Domain errors for the ranking module.
// Callers map these to rejected requests (invalid input) or "not found";
// none of them are retryable.
var (
	// ErrInvalidFilterSpec indicates a filter spec token could not be parsed.
	ErrInvalidFilterSpec = errors.New("invalid filter spec")

	// ErrFilterNotFound indicates a filter spec references an unknown filter.
	ErrFilterNotFound = errors.New("filter not found")

	// ErrFilterGroupNotFound indicates a filter references an unknown filter group.
	ErrFilterGroupNotFound = errors.New("filter group not found")

	ErrChartNotFound      = errors.New("chart not found")
	ErrChartGroupNotFound = errors.New("chart group not found")
	ErrChartTypeNotFound  = errors.New("chart type not found")
	ErrLadderNotFound     = errors.New("ladder not found")

	// ErrInconsistentHierarchy indicates a chart group mixes child groups and
	// charts, or the parent links form a cycle.
	ErrInconsistentHierarchy = errors.New("inconsistent chart group hierarchy")

	// ErrNegativeValue indicates a negative value was passed to a format spec.
	ErrNegativeValue = errors.New("cannot format negative value")

	// ErrInvalidFormatSpec indicates a format spec segment has a negative
	// multiplier or digit count.
	ErrInvalidFormatSpec = errors.New("invalid format spec")

	// ErrInvalidImprovementsOption indicates an unknown record history mode.
	ErrInvalidImprovementsOption = errors.New("improvements option must be flag or filter")

	// ErrInvalidRecordSort indicates an unknown record list order.
	ErrInvalidRecordSort = errors.New("sort must be date_submitted, date_achieved or value")

	// ErrInvalidWeight indicates a ladder chart tag weight outside [0, 1].
	ErrInvalidWeight = errors.New("ladder chart tag weight must be between 0 and 1")
)
