package boxscore

import "testing"

func validLine() StatLine {
	return StatLine{
		MinutesSeconds: 2010,
		Points:         27,
		FGM:            9, FGA: 16,
		TwoPM: 6, TwoPA: 9,
		ThreePM: 3, ThreePA: 7,
		FTM: 6, FTA: 7,
		OffRebounds: 2, DefRebounds: 5, TotRebounds: 7,
		Assists: 4, Turnovers: 2, Steals: 1, Blocks: 0, PersonalFouls: 3,
	}
}

func TestStatLineValidate(t *testing.T) {
	t.Parallel()

	if err := validLine().Validate(); err != nil {
		t.Fatalf("valid line rejected: %v", err)
	}

	split := validLine()
	split.TwoPM = 7
	if err := split.Validate(); err == nil {
		t.Fatalf("2pm+3pm != fgm must fail")
	}

	rebounds := validLine()
	rebounds.TotRebounds = 8
	if err := rebounds.Validate(); err == nil {
		t.Fatalf("oreb+dreb != treb must fail")
	}

	points := validLine()
	points.Points = 30
	if err := points.Validate(); err == nil {
		t.Fatalf("points identity must fail")
	}

	negative := validLine()
	negative.Steals = -1
	if err := negative.Validate(); err == nil {
		t.Fatalf("negative counter must fail")
	}

	overShot := validLine()
	overShot.FGM = 17
	if err := overShot.Validate(); err == nil {
		t.Fatalf("fgm > fga must fail")
	}
}

func TestParseMinutes(t *testing.T) {
	t.Parallel()

	got, err := ParseMinutes("33:30")
	if err != nil || got != 2010 {
		t.Fatalf("ParseMinutes = (%d, %v), want 2010", got, err)
	}
	// Team minute totals exceed 60 minutes.
	got, err = ParseMinutes("240:00")
	if err != nil || got != 14400 {
		t.Fatalf("ParseMinutes = (%d, %v), want 14400", got, err)
	}
	if _, err := ParseMinutes("33.5"); err == nil {
		t.Fatalf("non MM:SS input must fail")
	}
}
