package winner

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

const dateLayout = "2006-01-02"

func mapSeason(item seasonItem) (usecase.RawSeason, error) {
	if strings.TrimSpace(item.ID) == "" {
		return usecase.RawSeason{}, fmt.Errorf("winner season without id")
	}

	out := usecase.RawSeason{
		ExternalID: item.ID,
		Name:       strings.TrimSpace(item.Name),
		IsCurrent:  item.IsCurrent,
	}
	if item.StartDate != "" {
		start, err := time.Parse(dateLayout, item.StartDate)
		if err != nil {
			return usecase.RawSeason{}, fmt.Errorf("parse winner season %s start date: %w", item.ID, err)
		}
		out.StartDate = start
	}
	if item.EndDate != "" {
		end, err := time.Parse(dateLayout, item.EndDate)
		if err != nil {
			return usecase.RawSeason{}, fmt.Errorf("parse winner season %s end date: %w", item.ID, err)
		}
		out.EndDate = end
	}
	return out, nil
}

func mapTeam(item teamItem) (usecase.RawTeam, error) {
	if strings.TrimSpace(item.ID) == "" {
		return usecase.RawTeam{}, fmt.Errorf("winner team without id")
	}

	roster := make([]usecase.RawPlayer, 0, len(item.Players))
	for _, raw := range item.Players {
		mapped, err := mapPlayer(raw)
		if err != nil {
			return usecase.RawTeam{}, err
		}
		if mapped.TeamExternalID == "" {
			mapped.TeamExternalID = item.ID
		}
		roster = append(roster, mapped)
	}

	return usecase.RawTeam{
		ExternalID: item.ID,
		Name:       strings.TrimSpace(item.Name),
		ShortName:  strings.TrimSpace(item.ShortName),
		City:       strings.TrimSpace(item.City),
		Country:    strings.TrimSpace(item.Country),
		Roster:     roster,
	}, nil
}

func mapPlayer(item playerItem) (usecase.RawPlayer, error) {
	if strings.TrimSpace(item.ID) == "" {
		return usecase.RawPlayer{}, fmt.Errorf("winner player without id")
	}

	first := strings.TrimSpace(item.FirstName)
	last := strings.TrimSpace(item.LastName)
	if first == "" && last == "" {
		first, last = normalize.PersonName(item.FullName)
	}

	positions, err := player.NormalizePosition(item.Position, sourceName)
	if err != nil {
		return usecase.RawPlayer{}, fmt.Errorf("map winner player %s: %w", item.ID, err)
	}

	out := usecase.RawPlayer{
		ExternalID:     item.ID,
		TeamExternalID: strings.TrimSpace(item.TeamID),
		FirstName:      first,
		LastName:       last,
		Nationality:    strings.TrimSpace(item.Nationality),
		HeightCM:       item.HeightCM,
		Positions:      positions,
		JerseyNumber:   item.Jersey,
	}
	for src, ref := range item.ExternalRefs {
		src, ref = strings.TrimSpace(src), strings.TrimSpace(ref)
		if src == "" || ref == "" || src == sourceName {
			continue
		}
		if out.KnownExternalIDs == nil {
			out.KnownExternalIDs = make(map[string]string, len(item.ExternalRefs))
		}
		out.KnownExternalIDs[strings.ToLower(src)] = ref
	}
	if item.BirthDate != "" {
		birth, err := time.Parse(dateLayout, item.BirthDate)
		if err != nil {
			return usecase.RawPlayer{}, fmt.Errorf("parse winner player %s birth date: %w", item.ID, err)
		}
		out.BirthDate = &birth
	}
	return out, nil
}

func mapGame(item gameItem) (usecase.RawGame, error) {
	if strings.TrimSpace(item.ID) == "" {
		return usecase.RawGame{}, fmt.Errorf("winner game without id")
	}

	status, err := game.NormalizeStatus(item.Status, sourceName)
	if err != nil {
		return usecase.RawGame{}, fmt.Errorf("map winner game %s: %w", item.ID, err)
	}
	gameDate, err := time.Parse(time.RFC3339, item.Date)
	if err != nil {
		return usecase.RawGame{}, fmt.Errorf("parse winner game %s date: %w", item.ID, err)
	}

	return usecase.RawGame{
		ExternalID:         item.ID,
		SeasonExternalID:   item.SeasonID,
		HomeTeamExternalID: item.HomeTeamID,
		AwayTeamExternalID: item.AwayTeamID,
		HomeTeamName:       strings.TrimSpace(item.HomeTeamName),
		AwayTeamName:       strings.TrimSpace(item.AwayTeamName),
		GameDate:           gameDate.UTC(),
		Status:             status,
		HomeScore:          item.HomeScore,
		AwayScore:          item.AwayScore,
		Venue:              strings.TrimSpace(item.Venue),
		Attendance:         item.Attendance,
	}, nil
}

func mapBoxScore(envelope boxScoreEnvelope) (usecase.RawBoxScore, error) {
	mappedGame, err := mapGame(envelope.Game)
	if err != nil {
		return usecase.RawBoxScore{}, err
	}

	playerLines := make([]usecase.RawPlayerLine, 0, len(envelope.PlayerStats))
	for _, item := range envelope.PlayerStats {
		mapped, err := mapPlayerLine(item)
		if err != nil {
			return usecase.RawBoxScore{}, err
		}
		playerLines = append(playerLines, mapped)
	}

	teamLines := make([]usecase.RawTeamLine, 0, len(envelope.TeamStats))
	for _, item := range envelope.TeamStats {
		mapped, err := mapTeamLine(item)
		if err != nil {
			return usecase.RawBoxScore{}, err
		}
		teamLines = append(teamLines, mapped)
	}

	return usecase.RawBoxScore{
		Game:        mappedGame,
		PlayerLines: playerLines,
		TeamLines:   teamLines,
	}, nil
}

func mapPlayerLine(item playerLineItem) (usecase.RawPlayerLine, error) {
	mappedPlayer, err := mapPlayer(item.Player)
	if err != nil {
		return usecase.RawPlayerLine{}, err
	}
	line, err := mapStatLine(item.Stats)
	if err != nil {
		return usecase.RawPlayerLine{}, fmt.Errorf("map winner line player=%s: %w", item.Player.ID, err)
	}

	teamID := strings.TrimSpace(item.TeamID)
	if teamID == "" {
		teamID = mappedPlayer.TeamExternalID
	}

	return usecase.RawPlayerLine{
		Player:         mappedPlayer,
		TeamExternalID: teamID,
		IsStarter:      item.Starter,
		Line:           line,
		PlusMinus:      item.PlusMinus,
		Efficiency:     item.Efficiency,
		Extra:          item.Extra,
	}, nil
}

func mapTeamLine(item teamLineItem) (usecase.RawTeamLine, error) {
	if strings.TrimSpace(item.TeamID) == "" {
		return usecase.RawTeamLine{}, fmt.Errorf("winner team line without team id")
	}
	line, err := mapStatLine(item.Stats)
	if err != nil {
		return usecase.RawTeamLine{}, fmt.Errorf("map winner line team=%s: %w", item.TeamID, err)
	}

	timeLeading := 0
	if item.TimeLeading != "" {
		timeLeading, err = normalize.ClockSeconds(item.TimeLeading)
		if err != nil {
			return usecase.RawTeamLine{}, fmt.Errorf("parse winner time leading team=%s: %w", item.TeamID, err)
		}
	}

	return usecase.RawTeamLine{
		TeamExternalID:     item.TeamID,
		Line:               line,
		FastBreakPoints:    item.FastBreakPoints,
		PointsInPaint:      item.PointsInPaint,
		SecondChancePoints: item.SecondChancePoints,
		BenchPoints:        item.BenchPoints,
		BiggestLead:        item.BiggestLead,
		TimeLeadingSeconds: timeLeading,
		Extra:              item.Extra,
	}, nil
}

func mapStatLine(stats statBlock) (usecase.RawStatLine, error) {
	minutes := 0
	if stats.Minutes != "" {
		parsed, err := boxscore.ParseMinutes(stats.Minutes)
		if err != nil {
			return usecase.RawStatLine{}, err
		}
		minutes = parsed
	}

	return usecase.RawStatLine{
		MinutesSeconds: minutes,
		Points:         stats.Points,
		FGM:            stats.FGM,
		FGA:            stats.FGA,
		TwoPM:          stats.TwoPM,
		TwoPA:          stats.TwoPA,
		ThreePM:        stats.ThreePM,
		ThreePA:        stats.ThreePA,
		FTM:            stats.FTM,
		FTA:            stats.FTA,
		OffRebounds:    stats.OffRebounds,
		DefRebounds:    stats.DefRebounds,
		TotRebounds:    stats.TotRebounds,
		Assists:        stats.Assists,
		Turnovers:      stats.Turnovers,
		Steals:         stats.Steals,
		Blocks:         stats.Blocks,
		PersonalFouls:  stats.PersonalFouls,
	}, nil
}

func mapEvent(item eventItem) (usecase.RawPBPEvent, error) {
	eventType, err := pbp.NormalizeEventType(item.Type, sourceName)
	if err != nil {
		return usecase.RawPBPEvent{}, fmt.Errorf("map winner event %d: %w", item.Number, err)
	}
	if _, err := normalize.ClockSeconds(item.Clock); err != nil {
		return usecase.RawPBPEvent{}, fmt.Errorf("parse winner event %d clock: %w", item.Number, err)
	}

	attrs := map[string]any{}
	if item.FastBreak {
		attrs[pbp.AttrFastBreak] = true
	}
	if item.SecondChance {
		attrs[pbp.AttrSecondChance] = true
	}
	if item.Contested {
		attrs[pbp.AttrContested] = true
	}
	if item.Subtype != "" {
		attrs[pbp.AttrShotType] = strings.ToLower(strings.TrimSpace(item.Subtype))
	}
	if item.Points > 0 {
		attrs[pbp.AttrPointsValue] = item.Points
	}
	if len(attrs) == 0 {
		attrs = nil
	}

	return usecase.RawPBPEvent{
		EventNumber:         item.Number,
		Period:              item.Period,
		Clock:               item.Clock,
		EventType:           eventType,
		EventSubtype:        strings.ToLower(strings.TrimSpace(item.Subtype)),
		PlayerExternalID:    item.PlayerID,
		TeamExternalID:      item.TeamID,
		Success:             item.Made,
		CoordX:              item.X,
		CoordY:              item.Y,
		PlayerInExternalID:  item.PlayerIn,
		PlayerOutExternalID: item.PlayerOut,
		Attributes:          attrs,
		LinkedTo:            item.LinkedTo,
	}, nil
}
