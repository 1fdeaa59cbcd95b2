package enums

// StatsPeriod selects the aggregation bucket granularity.
type StatsPeriod string

const (
	StatsPeriodDay   StatsPeriod = "day"
	StatsPeriodWeek  StatsPeriod = "week"
	StatsPeriodMonth StatsPeriod = "month"
)

// String implements fmt.Stringer.
func (s StatsPeriod) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StatsPeriod.
func (s StatsPeriod) IsValid() bool {
	switch s {
	case StatsPeriodDay, StatsPeriodWeek, StatsPeriodMonth:
		return true
	}
	return false
}

// NormalizeStatsPeriod clamps raw input to a valid period. Unrecognized or
// empty input falls back to day rather than erroring.
func NormalizeStatsPeriod(value string) StatsPeriod {
	period := StatsPeriod(value)
	if period.IsValid() {
		return period
	}
	return StatsPeriodDay
}
