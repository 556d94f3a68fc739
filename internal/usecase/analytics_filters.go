package usecase

import "fmt"

// ClutchFilter qualifies play-by-play events as clutch. Zero values are
// replaced by the conventional defaults: last 5 minutes of the 4th quarter
// or overtime, margin within 5.
type ClutchFilter struct {
	TimeRemainingSeconds int
	ScoreMargin          int
	IncludeOvertime      bool
	MinPeriod            int
}

func DefaultClutchFilter() ClutchFilter {
	return ClutchFilter{
		TimeRemainingSeconds: 300,
		ScoreMargin:          5,
		IncludeOvertime:      true,
		MinPeriod:            4,
	}
}

func (f ClutchFilter) normalized() ClutchFilter {
	defaults := DefaultClutchFilter()
	if f.TimeRemainingSeconds <= 0 {
		f.TimeRemainingSeconds = defaults.TimeRemainingSeconds
	}
	if f.ScoreMargin <= 0 {
		f.ScoreMargin = defaults.ScoreMargin
	}
	if f.MinPeriod <= 0 {
		f.MinPeriod = defaults.MinPeriod
	}
	return f
}

// matches evaluates the margin as it stood entering the event, so a shot
// that breaks a tie still counts as clutch.
func (f ClutchFilter) matches(period, clockSeconds, marginBefore int) bool {
	if period > regulationPeriods {
		if !f.IncludeOvertime {
			return false
		}
	} else if period < f.MinPeriod {
		return false
	}
	if clockSeconds > f.TimeRemainingSeconds {
		return false
	}
	if marginBefore < 0 {
		marginBefore = -marginBefore
	}
	return marginBefore <= f.ScoreMargin
}

// SituationalFilter constrains SHOT events on their tagged attributes. Nil
// booleans leave the dimension unconstrained.
type SituationalFilter struct {
	FastBreak    *bool
	SecondChance *bool
	Contested    *bool
	ShotType     string
}

// OpponentFilter narrows a team's games. HomeOnly and AwayOnly are mutually
// exclusive.
type OpponentFilter struct {
	OpponentTeamID string
	HomeOnly       bool
	AwayOnly       bool
}

func (f OpponentFilter) Validate() error {
	if f.HomeOnly && f.AwayOnly {
		return fmt.Errorf("%w: home_only and away_only are mutually exclusive", ErrInvalidInput)
	}
	return nil
}

// TimeFilter slices play-by-play by period and clock. Period and Periods are
// mutually exclusive; garbage time means the running margin exceeds 20.
type TimeFilter struct {
	Period             int
	Periods            []int
	ExcludeGarbageTime bool
	MinTimeRemaining   *int
	MaxTimeRemaining   *int
}

const garbageTimeMargin = 20

func (f TimeFilter) Validate() error {
	if f.Period != 0 && len(f.Periods) > 0 {
		return fmt.Errorf("%w: period and periods are mutually exclusive", ErrInvalidInput)
	}
	if f.MinTimeRemaining != nil && f.MaxTimeRemaining != nil && *f.MinTimeRemaining > *f.MaxTimeRemaining {
		return fmt.Errorf("%w: min_time_remaining exceeds max_time_remaining", ErrInvalidInput)
	}
	return nil
}

func (f TimeFilter) matches(period, clockSeconds, marginBefore int) bool {
	if f.Period != 0 && period != f.Period {
		return false
	}
	if len(f.Periods) > 0 {
		found := false
		for _, p := range f.Periods {
			if p == period {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ExcludeGarbageTime {
		margin := marginBefore
		if margin < 0 {
			margin = -margin
		}
		if margin > garbageTimeMargin {
			return false
		}
	}
	if f.MinTimeRemaining != nil && clockSeconds < *f.MinTimeRemaining {
		return false
	}
	if f.MaxTimeRemaining != nil && clockSeconds > *f.MaxTimeRemaining {
		return false
	}
	return true
}
