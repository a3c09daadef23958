package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
	"github.com/rocketscienceinc/multigame-backend/internal/rules"
)

// Matchmaker seats players in the single waiting session of each game type.
type Matchmaker interface {
	RegisterPlayer(ctx context.Context, player *entity.Player, gameType entity.GameType) (*entity.GamePlayer, error)
	UnregisterPlayer(ctx context.Context, seat *entity.GamePlayer) error
	AvailableColors(ctx context.Context, gameType entity.GameType) ([]entity.Color, error)

	LocateGame(ctx context.Context, gameType entity.GameType) (*entity.Game, error)
	LocateGameByID(ctx context.Context, gameType entity.GameType, id string) (*entity.Game, error)
}

type eventNotifier interface {
	Emit(ctx context.Context, event entity.Event)
}

type ruleBook interface {
	Get(gameType entity.GameType) (rules.Evaluator, error)
}

type matchmaker struct {
	logger *slog.Logger

	gameService   GameService
	playerService PlayerService
	rules         ruleBook
	notifier      eventNotifier
	locker        *Locker
	variants      entity.Variants
}

func NewMatchmaker(
	logger *slog.Logger,
	gameService GameService,
	playerService PlayerService,
	rules ruleBook,
	notifier eventNotifier,
	locker *Locker,
	variants entity.Variants,
) Matchmaker {
	return &matchmaker{
		logger:        logger.With("component", "matchmaker"),
		gameService:   gameService,
		playerService: playerService,
		rules:         rules,
		notifier:      notifier,
		locker:        locker,
		variants:      variants,
	}
}

func typeLockKey(gameType entity.GameType) string {
	return "type:" + string(gameType)
}

func gameLockKey(id string) string {
	return "game:" + id
}

func (that *matchmaker) RegisterPlayer(ctx context.Context, player *entity.Player, gameType entity.GameType) (*entity.GamePlayer, error) {
	log := that.logger.With("method", "registerPlayer", "type", gameType, "playerID", player.ID)

	if player.ID == "" {
		return nil, &apperror.RegistrationError{Reason: "player id is required"}
	}

	variant, err := that.variants.Get(gameType)
	if err != nil {
		return nil, err
	}

	evaluator, err := that.rules.Get(gameType)
	if err != nil {
		return nil, err
	}

	unlock, err := that.locker.Lock(ctx, typeLockKey(gameType))
	if err != nil {
		return nil, err
	}
	defer unlock()

	// a player keeps one seat per type until that game ends
	seated, err := that.gameService.FindSeat(ctx, gameType, player.ID)
	if err != nil {
		return nil, err
	}
	if seated != nil {
		return seated, nil
	}

	game, err := that.gameService.GetCurrentGame(ctx, gameType)
	if err != nil {
		return nil, err
	}

	if game != nil {
		if seat := game.SeatOf(player.ID); seat != nil {
			return seat, nil
		}
	}

	// a full or finished session leaves the waiting room
	if game == nil || !game.IsOpen() {
		if game, err = that.openGame(ctx, variant); err != nil {
			return nil, err
		}
	}

	color, ok := pickColor(game.AvailableColors(variant.Palette), player.Color)
	if !ok {
		return nil, &apperror.RegistrationError{Reason: fmt.Sprintf("game %s is full", game.ID), Err: apperror.ErrGameFull}
	}

	seat := &entity.GamePlayer{
		ID:       uuid.NewString(),
		PlayerID: player.ID,
		Name:     player.Name,
		Color:    color,
		JoinedAt: time.Now().UTC(),
	}
	game.AddPlayer(seat)

	began := false
	if len(game.Players) == variant.Players {
		evaluator.Setup(game.Grid, game.Players)
		game.Start()
		began = true
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, err
	}

	if err = that.gameService.BindSeat(ctx, seat); err != nil {
		log.Error("failed to bind seat", "error", err)
	}

	if err = that.playerService.RecordRegistration(ctx, player); err != nil {
		log.Error("failed to record registration", "error", err)
	}

	log.Info("player seated", "gameID", game.ID, "color", color, "seats", len(game.Players))

	that.notifier.Emit(ctx, entity.NewEvent(entity.EventPlayerChange, game, game.Players))
	if began {
		that.notifier.Emit(ctx, entity.NewEvent(entity.EventBegin, game, game))
	}

	return seat, nil
}

func (that *matchmaker) openGame(ctx context.Context, variant entity.Variant) (*entity.Game, error) {
	game, err := that.gameService.CreateGame(ctx, variant)
	if err != nil {
		return nil, err
	}

	if err = that.gameService.SetCurrentGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game opened", "method", "openGame", "gameID", game.ID, "type", game.Type)

	return game, nil
}

// pickColor honours the requested colour when it is still free.
func pickColor(available []entity.Color, requested entity.Color) (entity.Color, bool) {
	if len(available) == 0 {
		return entity.NoColor, false
	}

	for _, color := range available {
		if color == requested {
			return color, true
		}
	}

	return available[0], true
}

// UnregisterPlayer removes the seat and ends its session for everyone.
func (that *matchmaker) UnregisterPlayer(ctx context.Context, seat *entity.GamePlayer) error {
	log := that.logger.With("method", "unregisterPlayer", "gameID", seat.GameID, "seatID", seat.ID)

	game, err := that.gameService.GetGameByID(ctx, seat.GameID)
	if err != nil {
		return err
	}

	unlockType, err := that.locker.Lock(ctx, typeLockKey(game.Type))
	if err != nil {
		return err
	}
	defer unlockType()

	unlockGame, err := that.locker.Lock(ctx, gameLockKey(game.ID))
	if err != nil {
		return err
	}
	defer unlockGame()

	if game, err = that.gameService.GetGameByID(ctx, seat.GameID); err != nil {
		return err
	}

	if game.IsEnded() {
		return nil
	}

	leaving := game.Seat(seat.ID)
	if err = game.RemovePlayer(seat.ID); err != nil {
		if errors.Is(err, entity.ErrSeatNotFound) {
			return fmt.Errorf("%w: %w", apperror.ErrNotFound, err)
		}
		return err
	}
	game.Finish("")

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return err
	}

	log.Info("player left, game ended")

	if err = that.gameService.ReleaseSeat(ctx, leaving); err != nil {
		log.Error("failed to release seat", "error", err)
	}

	that.gameService.EndGame(ctx, game)

	that.notifier.Emit(ctx, entity.NewEvent(entity.EventPlayerChange, game, game.Players))
	that.notifier.Emit(ctx, entity.NewEvent(entity.EventEnd, game, game))

	return nil
}

func (that *matchmaker) AvailableColors(ctx context.Context, gameType entity.GameType) ([]entity.Color, error) {
	variant, err := that.variants.Get(gameType)
	if err != nil {
		return nil, err
	}

	game, err := that.gameService.GetCurrentGame(ctx, gameType)
	if err != nil {
		return nil, err
	}

	if game == nil || game.IsEnded() {
		return append([]entity.Color{}, variant.Palette...), nil
	}

	return game.AvailableColors(variant.Palette), nil
}

// LocateGame returns the current session of the type, opening one when there is none.
func (that *matchmaker) LocateGame(ctx context.Context, gameType entity.GameType) (*entity.Game, error) {
	variant, err := that.variants.Get(gameType)
	if err != nil {
		return nil, err
	}

	unlock, err := that.locker.Lock(ctx, typeLockKey(gameType))
	if err != nil {
		return nil, err
	}
	defer unlock()

	game, err := that.gameService.GetCurrentGame(ctx, gameType)
	if err != nil {
		return nil, err
	}

	if game != nil && !game.IsEnded() {
		return game, nil
	}

	return that.openGame(ctx, variant)
}

// LocateGameByID refuses to guess: zero or several matches are errors.
func (that *matchmaker) LocateGameByID(ctx context.Context, gameType entity.GameType, id string) (*entity.Game, error) {
	games, err := that.gameService.FindGames(ctx, gameType, id)
	if err != nil {
		return nil, err
	}

	switch len(games) {
	case 0:
		return nil, fmt.Errorf("%w: %s game %s", apperror.ErrNotFound, gameType, id)
	case 1:
		return games[0], nil
	default:
		return nil, fmt.Errorf("%w: %d %s games share id %s", apperror.ErrAmbiguousResult, len(games), gameType, id)
	}
}
