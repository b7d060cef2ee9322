package meta

import "math"

// AdvanceCalendar moves the calendar forward by days. Day overflow rolls
// into the month, month overflow into the year, and the quarter is derived
// from the month.
func AdvanceCalendar(gt GameTime, days int) GameTime {
	if days <= 0 {
		return gt
	}
	if gt.Month < 1 || gt.Month > MonthsPerYear {
		gt.Month = 1
	}
	if gt.Day < 1 {
		gt.Day = 1
	}
	gt.Day += days
	for gt.Day > DaysPerMonth {
		gt.Day -= DaysPerMonth
		gt.Month++
		if gt.Month > MonthsPerYear {
			gt.Month = 1
			gt.Year++
		}
	}
	gt.Quarter = QuarterOf(gt.Month)
	gt.DaysPassed += days
	return gt
}

// QuarterOf returns the quarter a month falls in.
func QuarterOf(month int) int {
	if month < 1 {
		return 1
	}
	return (month-1)/3 + 1
}

// DaysToAdvance is the whole number of days one turn covers at scale.
func DaysToAdvance(timeScale float64) int {
	return int(math.Max(1, math.Round(timeScale)))
}

// TimeScaleFor derives the days-per-turn scale from a compression factor.
func TimeScaleFor(factor float64) float64 {
	if factor <= 0 {
		return BaseTimeScale
	}
	return math.Max(MinTimeScale, math.Round(BaseTimeScale/factor))
}

// ClampCompression bounds a compression factor to [1, MaxCompressionFactor]
// rounded to two decimals.
func ClampCompression(factor float64) float64 {
	factor = math.Round(factor*100) / 100
	if factor < 1 {
		return 1
	}
	if factor > MaxCompressionFactor {
		return MaxCompressionFactor
	}
	return factor
}
