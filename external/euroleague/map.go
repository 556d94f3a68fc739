package euroleague

import (
	"fmt"
	"strings"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/normalize"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/usecase"
)

func mapSeason(item seasonItem) (usecase.RawSeason, error) {
	if strings.TrimSpace(item.Code) == "" {
		return usecase.RawSeason{}, fmt.Errorf("euroleague season without code")
	}

	out := usecase.RawSeason{
		ExternalID: item.Code,
		Name:       strings.TrimSpace(item.Name),
		IsCurrent:  item.Active,
	}
	if item.StartDate != "" {
		start, err := time.Parse(time.RFC3339, item.StartDate)
		if err != nil {
			return usecase.RawSeason{}, fmt.Errorf("parse euroleague season %s start date: %w", item.Code, err)
		}
		out.StartDate = start.UTC()
	}
	if item.EndDate != "" {
		end, err := time.Parse(time.RFC3339, item.EndDate)
		if err != nil {
			return usecase.RawSeason{}, fmt.Errorf("parse euroleague season %s end date: %w", item.Code, err)
		}
		out.EndDate = end.UTC()
	}
	return out, nil
}

func mapClub(item clubItem) (usecase.RawTeam, error) {
	if strings.TrimSpace(item.Code) == "" {
		return usecase.RawTeam{}, fmt.Errorf("euroleague club without code")
	}

	roster := make([]usecase.RawPlayer, 0, len(item.Roster))
	for _, raw := range item.Roster {
		mapped, err := mapRosterPlayer(raw, item.Code)
		if err != nil {
			return usecase.RawTeam{}, err
		}
		roster = append(roster, mapped)
	}

	return usecase.RawTeam{
		ExternalID: item.Code,
		Name:       strings.TrimSpace(item.Name),
		ShortName:  strings.TrimSpace(item.AbbreviatedName),
		City:       strings.TrimSpace(item.City),
		Country:    strings.TrimSpace(item.Country),
		Roster:     roster,
	}, nil
}

func mapRosterPlayer(item rosterItem, clubCode string) (usecase.RawPlayer, error) {
	if strings.TrimSpace(item.Code) == "" {
		return usecase.RawPlayer{}, fmt.Errorf("euroleague player without code")
	}

	first, last := splitFeedName(item.Name)
	positions, err := player.NormalizePosition(item.Position, sourceName)
	if err != nil {
		return usecase.RawPlayer{}, fmt.Errorf("map euroleague player %s: %w", item.Code, err)
	}

	out := usecase.RawPlayer{
		ExternalID:     item.Code,
		TeamExternalID: clubCode,
		FirstName:      first,
		LastName:       last,
		Nationality:    strings.TrimSpace(item.Country),
		HeightCM:       item.Height,
		Positions:      positions,
		JerseyNumber:   item.Dorsal,
	}
	if item.BirthDate != "" {
		birth, err := time.Parse(time.RFC3339, item.BirthDate)
		if err != nil {
			return usecase.RawPlayer{}, fmt.Errorf("parse euroleague player %s birth date: %w", item.Code, err)
		}
		utc := birth.UTC()
		out.BirthDate = &utc
	}
	return out, nil
}

// splitFeedName handles the feed's "Last, First" convention and falls back
// to the generic splitter for names without a comma.
func splitFeedName(raw string) (first, last string) {
	if idx := strings.Index(raw, ","); idx >= 0 {
		return strings.TrimSpace(raw[idx+1:]), strings.TrimSpace(raw[:idx])
	}
	return normalize.PersonName(raw)
}

func mapGame(item gameRow) (usecase.RawGame, error) {
	if strings.TrimSpace(item.Code) == "" {
		return usecase.RawGame{}, fmt.Errorf("euroleague game without code")
	}

	status, err := game.NormalizeStatus(item.Status, sourceName)
	if err != nil {
		return usecase.RawGame{}, fmt.Errorf("map euroleague game %s: %w", item.Code, err)
	}
	gameDate, err := time.Parse(time.RFC3339, item.Date)
	if err != nil {
		return usecase.RawGame{}, fmt.Errorf("parse euroleague game %s date: %w", item.Code, err)
	}

	return usecase.RawGame{
		ExternalID:         item.Code,
		SeasonExternalID:   item.SeasonCode,
		HomeTeamExternalID: item.Local.Code,
		AwayTeamExternalID: item.Road.Code,
		HomeTeamName:       strings.TrimSpace(item.Local.Name),
		AwayTeamName:       strings.TrimSpace(item.Road.Name),
		GameDate:           gameDate.UTC(),
		Status:             status,
		HomeScore:          item.Local.Score,
		AwayScore:          item.Road.Score,
		Venue:              strings.TrimSpace(item.Venue),
		Attendance:         item.Audience,
	}, nil
}

func mapBoxScore(data boxScoreData) (usecase.RawBoxScore, error) {
	mappedGame, err := mapGame(data.Game)
	if err != nil {
		return usecase.RawBoxScore{}, err
	}

	playerLines := make([]usecase.RawPlayerLine, 0, len(data.PlayerStats))
	for _, item := range data.PlayerStats {
		mappedPlayer, err := mapRosterPlayer(item.Player, item.ClubCode)
		if err != nil {
			return usecase.RawBoxScore{}, err
		}
		line, err := mapBoxLine(item.boxLine)
		if err != nil {
			return usecase.RawBoxScore{}, fmt.Errorf("map euroleague line player=%s: %w", item.Player.Code, err)
		}
		playerLines = append(playerLines, usecase.RawPlayerLine{
			Player:         mappedPlayer,
			TeamExternalID: item.ClubCode,
			IsStarter:      item.Start,
			Line:           line,
			PlusMinus:      item.PlusMinus,
			Efficiency:     item.Valuation,
		})
	}

	teamLines := make([]usecase.RawTeamLine, 0, len(data.ClubStats))
	for _, item := range data.ClubStats {
		if strings.TrimSpace(item.ClubCode) == "" {
			return usecase.RawBoxScore{}, fmt.Errorf("euroleague club stat without club code")
		}
		line, err := mapBoxLine(item.boxLine)
		if err != nil {
			return usecase.RawBoxScore{}, fmt.Errorf("map euroleague line club=%s: %w", item.ClubCode, err)
		}
		teamLines = append(teamLines, usecase.RawTeamLine{
			TeamExternalID:     item.ClubCode,
			Line:               line,
			FastBreakPoints:    item.PointsFastBreak,
			PointsInPaint:      item.PointsInPaint,
			SecondChancePoints: item.PointsSecondChance,
			BenchPoints:        item.PointsBench,
			BiggestLead:        item.MaxLead,
			TimeLeadingSeconds: item.SecondsLeading,
		})
	}

	return usecase.RawBoxScore{
		Game:        mappedGame,
		PlayerLines: playerLines,
		TeamLines:   teamLines,
	}, nil
}

// mapBoxLine derives the combined field-goal counters the feed never sends.
func mapBoxLine(line boxLine) (usecase.RawStatLine, error) {
	minutes := 0
	if line.Minutes != "" {
		parsed, err := boxscore.ParseMinutes(line.Minutes)
		if err != nil {
			return usecase.RawStatLine{}, err
		}
		minutes = parsed
	}

	return usecase.RawStatLine{
		MinutesSeconds: minutes,
		Points:         line.Points,
		FGM:            line.FieldGoalsMade2 + line.FieldGoalsMade3,
		FGA:            line.FieldGoalsAttempt2 + line.FieldGoalsAttempt3,
		TwoPM:          line.FieldGoalsMade2,
		TwoPA:          line.FieldGoalsAttempt2,
		ThreePM:        line.FieldGoalsMade3,
		ThreePA:        line.FieldGoalsAttempt3,
		FTM:            line.FreeThrowsMade,
		FTA:            line.FreeThrowsAttempted,
		OffRebounds:    line.OffensiveRebounds,
		DefRebounds:    line.DefensiveRebounds,
		TotRebounds:    line.TotalRebounds,
		Assists:        line.Assistances,
		Turnovers:      line.Turnovers,
		Steals:         line.Steals,
		Blocks:         line.BlocksFavour,
		PersonalFouls:  line.FoulsCommited,
	}, nil
}

func mapPlay(item playRow) (usecase.RawPBPEvent, error) {
	spec, err := expandPlayCode(item.PlayType)
	if err != nil {
		return usecase.RawPBPEvent{}, fmt.Errorf("map euroleague play %d: %w", item.NumberOfPlay, err)
	}
	if _, err := normalize.ClockSeconds(item.MarkerTime); err != nil {
		return usecase.RawPBPEvent{}, fmt.Errorf("parse euroleague play %d clock: %w", item.NumberOfPlay, err)
	}

	var success *bool
	if spec.success != nil {
		made := *spec.success
		success = &made
	}

	attrs := map[string]any{}
	if item.FastBreak {
		attrs[pbp.AttrFastBreak] = true
	}
	if item.SecondChance {
		attrs[pbp.AttrSecondChance] = true
	}
	if spec.subtype != "" {
		attrs[pbp.AttrShotType] = spec.subtype
	}
	if spec.points > 0 {
		attrs[pbp.AttrPointsValue] = spec.points
	}
	if len(attrs) == 0 {
		attrs = nil
	}

	return usecase.RawPBPEvent{
		EventNumber:         item.NumberOfPlay,
		Period:              item.Quarter,
		Clock:               item.MarkerTime,
		EventType:           spec.eventType,
		EventSubtype:        spec.subtype,
		PlayerExternalID:    item.PlayerCode,
		TeamExternalID:      item.TeamCode,
		Success:             success,
		CoordX:              item.CoordX,
		CoordY:              item.CoordY,
		PlayerInExternalID:  item.PlayerIn,
		PlayerOutExternalID: item.PlayerOut,
		Attributes:          attrs,
		LinkedTo:            item.RelatedPlays,
	}, nil
}
