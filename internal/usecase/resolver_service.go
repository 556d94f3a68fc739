package usecase

import (
	"context"
	"fmt"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/domain/team"
	"github.com/courtdata/hoopsync/internal/platform/logging"
)

// ResolverService maps a provider's (source, external id) to a canonical
// entity, creating it at first sight. Matching tiers are strict: external id,
// then folded name, then (for players) biographical evidence. Ambiguity never
// auto-merges; it creates a fresh row and reports the candidates.
type ResolverService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	logger     *logging.Logger
}

func NewResolverService(teamRepo team.Repository, playerRepo player.Repository, logger *logging.Logger) *ResolverService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResolverService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		logger:     logger,
	}
}

// ResolveOutcome reports how a resolution concluded. CandidateIDs is only set
// for ambiguous matches, so the orchestrator can record them.
type ResolveOutcome struct {
	Created      bool
	Ambiguous    bool
	CandidateIDs []string
}

func (s *ResolverService) ResolveTeam(ctx context.Context, source string, raw RawTeam) (team.Team, ResolveOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.ResolveTeam")
	defer span.End()

	if s.teamRepo == nil {
		return team.Team{}, ResolveOutcome{}, fmt.Errorf("%w: team repository is not configured", ErrDependencyUnavailable)
	}
	if raw.ExternalID == "" || raw.Name == "" {
		return team.Team{}, ResolveOutcome{}, fmt.Errorf("%w: team requires external id and name", ErrInvalidInput)
	}

	existing, found, err := s.teamRepo.GetByExternalID(ctx, source, raw.ExternalID)
	if err != nil {
		return team.Team{}, ResolveOutcome{}, fmt.Errorf("resolve team by external id: %w", err)
	}
	if found {
		if fillTeamFields(&existing, raw) {
			if err := s.teamRepo.Update(ctx, existing); err != nil {
				return team.Team{}, ResolveOutcome{}, fmt.Errorf("backfill team %s: %w", existing.ID, err)
			}
		}
		return existing, ResolveOutcome{}, nil
	}

	candidates, err := s.teamRepo.FindByNameKey(ctx, normalize.Fold(raw.Name))
	if err != nil {
		return team.Team{}, ResolveOutcome{}, fmt.Errorf("resolve team by name: %w", err)
	}
	if len(candidates) == 1 {
		return s.adoptTeam(ctx, source, candidates[0], raw)
	}

	created, err := s.teamRepo.Create(ctx, team.Team{
		Name:        raw.Name,
		ShortName:   raw.ShortName,
		City:        raw.City,
		Country:     raw.Country,
		ExternalIDs: map[string]string{source: raw.ExternalID},
	})
	if err != nil {
		return team.Team{}, ResolveOutcome{}, fmt.Errorf("create team %q: %w", raw.Name, err)
	}
	return created, ResolveOutcome{Created: true}, nil
}

// adoptTeam attaches a new source's external id to a name-matched team. A
// conflicting id for the same source key is a hard identity error, never an
// overwrite.
func (s *ResolverService) adoptTeam(ctx context.Context, source string, matched team.Team, raw RawTeam) (team.Team, ResolveOutcome, error) {
	if owned, ok := matched.ExternalIDs[source]; ok && owned != raw.ExternalID {
		return team.Team{}, ResolveOutcome{}, fmt.Errorf(
			"%w: team %s already carries %s id %q, got %q", ErrIdentityConflict, matched.ID, source, owned, raw.ExternalID)
	}
	if matched.ExternalIDs == nil {
		matched.ExternalIDs = map[string]string{}
	}
	matched.ExternalIDs[source] = raw.ExternalID
	fillTeamFields(&matched, raw)
	if err := s.teamRepo.Update(ctx, matched); err != nil {
		return team.Team{}, ResolveOutcome{}, fmt.Errorf("%w: team %q from %s: %w", ErrIdentityConflict, raw.Name, source, err)
	}
	s.logger.InfoContext(ctx, "matched team across sources",
		"team_id", matched.ID, "source", source, "external_id", raw.ExternalID)
	return matched, ResolveOutcome{}, nil
}

// ResolvePlayer resolves a roster entry against the store. teamID narrows the
// tier-2 roster search and may be empty when the caller has no team context.
func (s *ResolverService) ResolvePlayer(ctx context.Context, source, teamID string, raw RawPlayer) (player.Player, ResolveOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.ResolvePlayer")
	defer span.End()

	if s.playerRepo == nil {
		return player.Player{}, ResolveOutcome{}, fmt.Errorf("%w: player repository is not configured", ErrDependencyUnavailable)
	}
	if raw.ExternalID == "" || raw.LastName == "" {
		return player.Player{}, ResolveOutcome{}, fmt.Errorf("%w: player requires external id and last name", ErrInvalidInput)
	}

	existing, found, err := s.playerRepo.GetByExternalID(ctx, source, raw.ExternalID)
	if err != nil {
		return player.Player{}, ResolveOutcome{}, fmt.Errorf("resolve player by external id: %w", err)
	}
	if found {
		idsChanged, err := mergePlayerIdentity(&existing, source, raw)
		if err != nil {
			return player.Player{}, ResolveOutcome{}, err
		}
		if fillPlayerFields(&existing, raw) || idsChanged {
			if err := s.playerRepo.Update(ctx, existing); err != nil {
				return player.Player{}, ResolveOutcome{}, fmt.Errorf("%w: player %s from %s: %w", ErrIdentityConflict, existing.ID, source, err)
			}
		}
		return existing, ResolveOutcome{}, nil
	}

	nameKey := normalize.FullNameKey(raw.FirstName, raw.LastName)

	if teamID != "" {
		roster, err := s.playerRepo.ListByTeam(ctx, teamID)
		if err != nil {
			return player.Player{}, ResolveOutcome{}, fmt.Errorf("resolve player by roster: %w", err)
		}
		var hits []player.Player
		for _, candidate := range roster {
			if candidate.NameKey() == nameKey {
				hits = append(hits, candidate)
			}
		}
		if len(hits) == 1 {
			return s.adoptPlayer(ctx, source, hits[0], raw)
		}
	}

	candidates, err := s.playerRepo.FindByNameKey(ctx, nameKey)
	if err != nil {
		return player.Player{}, ResolveOutcome{}, fmt.Errorf("resolve player by name: %w", err)
	}
	var confirmed []player.Player
	for _, candidate := range candidates {
		if biographicalMatch(candidate, raw) {
			confirmed = append(confirmed, candidate)
		}
	}

	switch len(confirmed) {
	case 1:
		return s.adoptPlayer(ctx, source, confirmed[0], raw)
	case 0:
		return s.createPlayer(ctx, source, raw, ResolveOutcome{Created: true})
	default:
		candidateIDs := make([]string, 0, len(confirmed))
		for _, c := range confirmed {
			candidateIDs = append(candidateIDs, c.ID)
		}
		s.logger.WarnContext(ctx, "ambiguous player match, creating new row",
			"source", source, "external_id", raw.ExternalID, "name_key", nameKey, "candidates", candidateIDs)
		return s.createPlayer(ctx, source, raw, ResolveOutcome{Created: true, Ambiguous: true, CandidateIDs: candidateIDs})
	}
}

// rawPlayerIdentity collects every (source, id) pair the payload asserts: the
// provider's own id plus any cross-source references it carries. A payload
// contradicting itself is already an identity conflict.
func rawPlayerIdentity(source string, raw RawPlayer) (map[string]string, error) {
	ids := map[string]string{source: raw.ExternalID}
	for src, externalID := range raw.KnownExternalIDs {
		if src == "" || externalID == "" {
			continue
		}
		if existing, ok := ids[src]; ok && existing != externalID {
			return nil, fmt.Errorf("%w: payload asserts both %q and %q for %s", ErrIdentityConflict, existing, externalID, src)
		}
		ids[src] = externalID
	}
	return ids, nil
}

// mergePlayerIdentity folds the payload's asserted ids into the canonical
// row. A stored mapping for any source key is never overwritten; a
// contradiction is a hard identity error.
func mergePlayerIdentity(dst *player.Player, source string, raw RawPlayer) (bool, error) {
	ids, err := rawPlayerIdentity(source, raw)
	if err != nil {
		return false, err
	}
	for src, externalID := range ids {
		if owned, ok := dst.ExternalIDs[src]; ok && owned != externalID {
			return false, fmt.Errorf(
				"%w: player %s already carries %s id %q, got %q", ErrIdentityConflict, dst.ID, src, owned, externalID)
		}
	}
	changed := false
	if dst.ExternalIDs == nil {
		dst.ExternalIDs = make(map[string]string, len(ids))
	}
	for src, externalID := range ids {
		if _, ok := dst.ExternalIDs[src]; !ok {
			dst.ExternalIDs[src] = externalID
			changed = true
		}
	}
	return changed, nil
}

// adoptPlayer attaches a new source's external ids to a matched player and
// backfills missing biography. A conflicting value for any stored source key
// is a hard identity error, never an overwrite.
func (s *ResolverService) adoptPlayer(ctx context.Context, source string, matched player.Player, raw RawPlayer) (player.Player, ResolveOutcome, error) {
	if _, err := mergePlayerIdentity(&matched, source, raw); err != nil {
		return player.Player{}, ResolveOutcome{}, err
	}
	fillPlayerFields(&matched, raw)
	if err := s.playerRepo.Update(ctx, matched); err != nil {
		return player.Player{}, ResolveOutcome{}, fmt.Errorf("%w: player %s from %s: %w", ErrIdentityConflict, matched.ID, source, err)
	}
	s.logger.InfoContext(ctx, "matched player across sources",
		"player_id", matched.ID, "source", source, "external_id", raw.ExternalID)
	return matched, ResolveOutcome{}, nil
}

func (s *ResolverService) createPlayer(ctx context.Context, source string, raw RawPlayer, outcome ResolveOutcome) (player.Player, ResolveOutcome, error) {
	ids, err := rawPlayerIdentity(source, raw)
	if err != nil {
		return player.Player{}, ResolveOutcome{}, err
	}
	created, err := s.playerRepo.Create(ctx, player.Player{
		FirstName:   raw.FirstName,
		LastName:    raw.LastName,
		BirthDate:   raw.BirthDate,
		Nationality: raw.Nationality,
		HeightCM:    raw.HeightCM,
		Positions:   raw.Positions,
		ExternalIDs: ids,
	})
	if err != nil {
		return player.Player{}, ResolveOutcome{}, fmt.Errorf("create player %s %s: %w", raw.FirstName, raw.LastName, err)
	}
	return created, outcome, nil
}

// biographicalMatch accepts a same-name candidate only on hard evidence:
// exact birth date, or heights within 2cm of each other.
func biographicalMatch(candidate player.Player, raw RawPlayer) bool {
	if raw.BirthDate != nil && candidate.BirthDate != nil {
		if raw.BirthDate.Equal(*candidate.BirthDate) {
			return true
		}
	}
	if raw.HeightCM != nil && candidate.HeightCM != nil {
		diff := *raw.HeightCM - *candidate.HeightCM
		if diff < 0 {
			diff = -diff
		}
		if diff <= 2 {
			return true
		}
	}
	return false
}

// fillTeamFields backfills blank fields; present values always win.
func fillTeamFields(dst *team.Team, raw RawTeam) bool {
	changed := false
	if dst.ShortName == "" && raw.ShortName != "" {
		dst.ShortName = raw.ShortName
		changed = true
	}
	if dst.City == "" && raw.City != "" {
		dst.City = raw.City
		changed = true
	}
	if dst.Country == "" && raw.Country != "" {
		dst.Country = raw.Country
		changed = true
	}
	return changed
}

func fillPlayerFields(dst *player.Player, raw RawPlayer) bool {
	changed := false
	if dst.BirthDate == nil && raw.BirthDate != nil {
		birthDate := *raw.BirthDate
		dst.BirthDate = &birthDate
		changed = true
	}
	if dst.Nationality == "" && raw.Nationality != "" {
		dst.Nationality = raw.Nationality
		changed = true
	}
	if dst.HeightCM == nil && raw.HeightCM != nil {
		height := *raw.HeightCM
		dst.HeightCM = &height
		changed = true
	}
	if len(dst.Positions) == 0 && len(raw.Positions) > 0 {
		dst.Positions = append([]player.Position(nil), raw.Positions...)
		changed = true
	}
	return changed
}
