package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/multigame-backend/internal/entity"
	"github.com/rocketscienceinc/multigame-backend/internal/repository"
)

// GameService owns game storage: the live copy in redis and the sqlite archive of ended games.
type GameService interface {
	CreateGame(ctx context.Context, variant entity.Variant) (*entity.Game, error)
	UpdateGame(ctx context.Context, game *entity.Game, moves ...*entity.Move) error
	// EndGame archives an ended game and takes it out of matchmaking. Failures are logged only.
	EndGame(ctx context.Context, game *entity.Game)

	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
	FindGames(ctx context.Context, gameType entity.GameType, id string) ([]*entity.Game, error)
	ListMoves(ctx context.Context, id string) ([]*entity.Move, error)

	// GetCurrentGame returns the type's current session, nil when there is none.
	GetCurrentGame(ctx context.Context, gameType entity.GameType) (*entity.Game, error)
	SetCurrentGame(ctx context.Context, game *entity.Game) error

	// FindSeat returns the player's seat in a live game of the type, nil when there is none.
	FindSeat(ctx context.Context, gameType entity.GameType, playerID string) (*entity.GamePlayer, error)
	BindSeat(ctx context.Context, seat *entity.GamePlayer) error
	ReleaseSeat(ctx context.Context, seat *entity.GamePlayer) error
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	Update(ctx context.Context, game *entity.Game, moves ...*entity.Move) error
	Expire(ctx context.Context, id string, ttl time.Duration) error

	GetByID(ctx context.Context, id string) (*entity.Game, error)
	FindByType(ctx context.Context, gameType entity.GameType, id string) ([]*entity.Game, error)
	ListMoves(ctx context.Context, id string) ([]*entity.Move, error)

	GetCurrent(ctx context.Context, gameType entity.GameType) (string, error)
	SetCurrent(ctx context.Context, gameType entity.GameType, id string) error
	ClearCurrent(ctx context.Context, gameType entity.GameType, id string) error

	GetSeat(ctx context.Context, gameType entity.GameType, playerID string) (string, error)
	SetSeat(ctx context.Context, gameType entity.GameType, playerID, id string) error
	ClearSeat(ctx context.Context, gameType entity.GameType, playerID, id string) error
}

type archiveRepo interface {
	Save(ctx context.Context, game *entity.Game, moves []*entity.Move) error

	GetByID(ctx context.Context, id string) (*entity.Game, error)
	FindByType(ctx context.Context, gameType entity.GameType, id string) ([]*entity.Game, error)
	ListMoves(ctx context.Context, id string) ([]*entity.Move, error)
}

type gameService struct {
	logger *slog.Logger

	gameRepo    gameRepo
	archiveRepo archiveRepo
	finishedTTL time.Duration
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo, archiveRepo archiveRepo, finishedTTL time.Duration) GameService {
	return &gameService{
		logger:      logger.With("component", "gameService"),
		gameRepo:    gameRepo,
		archiveRepo: archiveRepo,
		finishedTTL: finishedTTL,
	}
}

func (that *gameService) CreateGame(ctx context.Context, variant entity.Variant) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString(), variant)

	if err := that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game in storage: %w", err)
	}

	return game, nil
}

func (that *gameService) UpdateGame(ctx context.Context, game *entity.Game, moves ...*entity.Move) error {
	if err := that.gameRepo.Update(ctx, game, moves...); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

func (that *gameService) EndGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "endGame", "gameID", game.ID)

	if err := that.gameRepo.ClearCurrent(ctx, game.Type, game.ID); err != nil {
		log.Error("failed to clear current game", "error", err)
	}

	for _, seat := range game.Players {
		if err := that.ReleaseSeat(ctx, seat); err != nil {
			log.Error("failed to release seat", "seatID", seat.ID, "error", err)
		}
	}

	moves, err := that.gameRepo.ListMoves(ctx, game.ID)
	if err != nil {
		log.Error("failed to read history for archive", "error", err)
		return
	}

	if err = that.archiveRepo.Save(ctx, game, moves); err != nil {
		log.Error("failed to archive game", "error", err)
		return
	}

	if that.finishedTTL > 0 {
		if err = that.gameRepo.Expire(ctx, game.ID, that.finishedTTL); err != nil {
			log.Error("failed to expire game", "error", err)
		}
	}

	log.Info("game archived", "winner", game.Winner, "moves", len(moves))
}

// GetGameByID falls back to the archive once the live copy is gone.
func (that *gameService) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err == nil {
		return game, nil
	}
	if !errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	game, err = that.archiveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from archive: %w", err)
	}

	return game, nil
}

func (that *gameService) FindGames(ctx context.Context, gameType entity.GameType, id string) ([]*entity.Game, error) {
	games, err := that.gameRepo.FindByType(ctx, gameType, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find games in storage: %w", err)
	}
	if len(games) > 0 {
		return games, nil
	}

	games, err = that.archiveRepo.FindByType(ctx, gameType, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find games in archive: %w", err)
	}

	return games, nil
}

func (that *gameService) ListMoves(ctx context.Context, id string) ([]*entity.Move, error) {
	_, err := that.gameRepo.GetByID(ctx, id)
	if err == nil {
		moves, listErr := that.gameRepo.ListMoves(ctx, id)
		if listErr != nil {
			return nil, fmt.Errorf("failed to list moves: %w", listErr)
		}
		return moves, nil
	}
	if !errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	if _, err = that.archiveRepo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to retrieve game from archive: %w", err)
	}

	moves, err := that.archiveRepo.ListMoves(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived moves: %w", err)
	}

	return moves, nil
}

func (that *gameService) GetCurrentGame(ctx context.Context, gameType entity.GameType) (*entity.Game, error) {
	id, err := that.gameRepo.GetCurrent(ctx, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to get current game: %w", err)
	}
	if id == "" {
		return nil, nil
	}

	game, err := that.gameRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve current game: %w", err)
	}

	return game, nil
}

func (that *gameService) SetCurrentGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.SetCurrent(ctx, game.Type, game.ID); err != nil {
		return fmt.Errorf("failed to set current game: %w", err)
	}
	return nil
}

func (that *gameService) FindSeat(ctx context.Context, gameType entity.GameType, playerID string) (*entity.GamePlayer, error) {
	id, err := that.gameRepo.GetSeat(ctx, gameType, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find seat: %w", err)
	}
	if id == "" {
		return nil, nil
	}

	game, err := that.gameRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve seated game: %w", err)
	}

	if game.IsEnded() {
		return nil, nil
	}

	return game.SeatOf(playerID), nil
}

func (that *gameService) BindSeat(ctx context.Context, seat *entity.GamePlayer) error {
	if err := that.gameRepo.SetSeat(ctx, seat.Type, seat.PlayerID, seat.GameID); err != nil {
		return fmt.Errorf("failed to bind seat: %w", err)
	}
	return nil
}

func (that *gameService) ReleaseSeat(ctx context.Context, seat *entity.GamePlayer) error {
	if err := that.gameRepo.ClearSeat(ctx, seat.Type, seat.PlayerID, seat.GameID); err != nil {
		return fmt.Errorf("failed to release seat: %w", err)
	}
	return nil
}
