package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

// GameUseCase - the operations offered to transports.
type GameUseCase interface {
	RegisterPlayer(ctx context.Context, gameType string, player *entity.Player) (*entity.GamePlayer, error)
	UnregisterPlayer(ctx context.Context, gameID, seatID string) error
	GetAvailableColors(ctx context.Context, gameType string) ([]entity.Color, error)

	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	LocateGame(ctx context.Context, gameType, gameID string) (*entity.Game, error)

	// DoMove returns the evaluated move; a rejected one comes with an *apperror.InvalidMoveError.
	DoMove(ctx context.Context, gameID string, move *entity.Move) (*entity.Move, error)
	SuggestMove(ctx context.Context, gameID string, suggestion *entity.Suggestion) (*entity.Suggestion, error)
	ListMoves(ctx context.Context, gameID string) ([]*entity.Move, error)
}

type matchmaker interface {
	RegisterPlayer(ctx context.Context, player *entity.Player, gameType entity.GameType) (*entity.GamePlayer, error)
	UnregisterPlayer(ctx context.Context, seat *entity.GamePlayer) error
	AvailableColors(ctx context.Context, gameType entity.GameType) ([]entity.Color, error)
	LocateGameByID(ctx context.Context, gameType entity.GameType, id string) (*entity.Game, error)
}

type gameService interface {
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

type gamePlayService interface {
	Move(ctx context.Context, gameID string, move *entity.Move) (*entity.Move, error)
	Suggest(ctx context.Context, gameID string, suggestion *entity.Suggestion) (*entity.Suggestion, error)
	ListMoves(ctx context.Context, gameID string) ([]*entity.Move, error)
}

type gameUseCase struct {
	logger *slog.Logger

	matchmaker      matchmaker
	gameService     gameService
	gamePlayService gamePlayService
}

func NewGameUseCase(logger *slog.Logger, matchmaker matchmaker, gameService gameService, gamePlayService gamePlayService) GameUseCase {
	return &gameUseCase{
		logger:          logger.With("component", "gameUseCase"),
		matchmaker:      matchmaker,
		gameService:     gameService,
		gamePlayService: gamePlayService,
	}
}

func (that *gameUseCase) RegisterPlayer(ctx context.Context, gameType string, player *entity.Player) (*entity.GamePlayer, error) {
	parsed, err := entity.ParseGameType(gameType)
	if err != nil {
		return nil, err
	}

	seat, err := that.matchmaker.RegisterPlayer(ctx, player, parsed)
	if err != nil {
		return nil, fmt.Errorf("could not register player: %w", err)
	}

	return seat, nil
}

func (that *gameUseCase) UnregisterPlayer(ctx context.Context, gameID, seatID string) error {
	if err := that.matchmaker.UnregisterPlayer(ctx, &entity.GamePlayer{ID: seatID, GameID: gameID}); err != nil {
		return fmt.Errorf("could not unregister player: %w", err)
	}
	return nil
}

func (that *gameUseCase) GetAvailableColors(ctx context.Context, gameType string) ([]entity.Color, error) {
	parsed, err := entity.ParseGameType(gameType)
	if err != nil {
		return nil, err
	}

	return that.matchmaker.AvailableColors(ctx, parsed)
}

func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("could not get game: %w", err)
	}
	return game, nil
}

func (that *gameUseCase) LocateGame(ctx context.Context, gameType, gameID string) (*entity.Game, error) {
	parsed, err := entity.ParseGameType(gameType)
	if err != nil {
		return nil, err
	}

	return that.matchmaker.LocateGameByID(ctx, parsed, gameID)
}

func (that *gameUseCase) DoMove(ctx context.Context, gameID string, move *entity.Move) (*entity.Move, error) {
	result, err := that.gamePlayService.Move(ctx, gameID, move)
	if err != nil {
		return nil, fmt.Errorf("could not make move: %w", err)
	}

	if result.Status == entity.StatusInvalid {
		that.logger.Debug("move rejected", "method", "doMove", "gameID", gameID, "reason", result.Reason)
		return result, &apperror.InvalidMoveError{Reason: result.Reason, Err: apperror.ErrInvalidMove}
	}

	return result, nil
}

func (that *gameUseCase) SuggestMove(ctx context.Context, gameID string, suggestion *entity.Suggestion) (*entity.Suggestion, error) {
	result, err := that.gamePlayService.Suggest(ctx, gameID, suggestion)
	if err != nil {
		return nil, fmt.Errorf("could not evaluate suggestion: %w", err)
	}

	if result.Status == entity.StatusInvalid {
		return result, &apperror.InvalidMoveError{Reason: result.Reason, Err: apperror.ErrInvalidSuggestion}
	}

	return result, nil
}

func (that *gameUseCase) ListMoves(ctx context.Context, gameID string) ([]*entity.Move, error) {
	moves, err := that.gamePlayService.ListMoves(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("could not list moves: %w", err)
	}
	return moves, nil
}
