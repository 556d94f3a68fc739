package game

import (
	"context"
	"time"
)

// ListFilter narrows game listings; zero values mean unconstrained.
type ListFilter struct {
	SeasonID string
	TeamID   string
	Status   Status
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id string) (Game, bool, error)
	GetByExternalID(ctx context.Context, source, externalID string) (Game, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Game, int, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Game, error)

	Create(ctx context.Context, item Game) (Game, error)
	Update(ctx context.Context, item Game) error
	// Delete removes a game and cascades to its stats and play-by-play.
	Delete(ctx context.Context, id string) error
}
