package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

type PlayerService interface {
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	RecordRegistration(ctx context.Context, player *entity.Player) error
	RecordWin(ctx context.Context, playerID string) error
}

type playerService struct {
	playerRepo playerRepo
}

type playerRepo interface {
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	Modify(ctx context.Context, id string, apply func(player *entity.Player)) (*entity.Player, error)
}

func NewPlayerService(playerRepo playerRepo) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
	}
}

func (that *playerService) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	existingPlayer, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get player by id: %w", err)
	}

	return existingPlayer, nil
}

// RecordRegistration counts a new seat for the player and remembers its name.
func (that *playerService) RecordRegistration(ctx context.Context, player *entity.Player) error {
	_, err := that.playerRepo.Modify(ctx, player.ID, func(stored *entity.Player) {
		if player.Name != "" {
			stored.Name = player.Name
		}
		stored.Color = player.Color
		stored.GameCount++
		stored.LastRegistration = time.Now().UTC()
	})
	if err != nil {
		return fmt.Errorf("record registration: %w", err)
	}

	return nil
}

func (that *playerService) RecordWin(ctx context.Context, playerID string) error {
	_, err := that.playerRepo.Modify(ctx, playerID, func(stored *entity.Player) {
		stored.Wins++
	})
	if err != nil {
		return fmt.Errorf("record win: %w", err)
	}

	return nil
}
