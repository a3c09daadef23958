package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

var ErrGameNotFound = fmt.Errorf("game %w", apperror.ErrNotFound)

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	// Update stores the game when nobody changed it since it was read and appends the moves to its history.
	Update(ctx context.Context, game *entity.Game, moves ...*entity.Move) error
	Expire(ctx context.Context, id string, ttl time.Duration) error

	GetByID(ctx context.Context, id string) (*entity.Game, error)
	FindByType(ctx context.Context, gameType entity.GameType, id string) ([]*entity.Game, error)
	ListMoves(ctx context.Context, id string) ([]*entity.Move, error)

	GetCurrent(ctx context.Context, gameType entity.GameType) (string, error)
	SetCurrent(ctx context.Context, gameType entity.GameType, id string) error
	ClearCurrent(ctx context.Context, gameType entity.GameType, id string) error

	// GetSeat returns the id of the game the player is seated in for the type, empty when there is none.
	GetSeat(ctx context.Context, gameType entity.GameType, playerID string) (string, error)
	SetSeat(ctx context.Context, gameType entity.GameType, playerID, id string) error
	ClearSeat(ctx context.Context, gameType entity.GameType, playerID, id string) error
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func movesKey(id string) string {
	return "game:" + id + ":moves"
}

func currentKey(gameType entity.GameType) string {
	return "current:" + string(gameType)
}

func seatKey(gameType entity.GameType, playerID string) string {
	return "seat:" + string(gameType) + ":" + playerID
}

func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	created, err := that.client.SetNX(ctx, gameKey(game.ID), gameJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	if !created {
		return fmt.Errorf("%w: %s", apperror.ErrGameAlreadyExists, game.ID)
	}

	return nil
}

func (that *dbGame) Update(ctx context.Context, game *entity.Game, moves ...*entity.Move) error {
	key := gameKey(game.ID)
	expected := game.Version

	next := *game
	next.Version = expected + 1
	next.UpdatedAt = time.Now().UTC()

	gameJSON, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	history := make([]any, 0, len(moves))
	for _, move := range moves {
		moveJSON, marshalErr := json.Marshal(move)
		if marshalErr != nil {
			return fmt.Errorf("could not marshal move: %w", marshalErr)
		}
		history = append(history, moveJSON)
	}

	txf := func(tx *redis.Tx) error {
		var stored struct {
			Version int64 `json:"version"`
		}

		response, getErr := tx.Get(ctx, key).Bytes()
		if errors.Is(getErr, redis.Nil) {
			return ErrGameNotFound
		}
		if getErr != nil {
			return fmt.Errorf("failed to get game: %w", getErr)
		}

		if getErr = json.Unmarshal(response, &stored); getErr != nil {
			return fmt.Errorf("failed to unmarshal game: %w", getErr)
		}

		if stored.Version != expected {
			return fmt.Errorf("%w: game %s is at version %d, expected %d", apperror.ErrConflict, game.ID, stored.Version, expected)
		}

		_, getErr = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, 0)
			if len(history) > 0 {
				pipe.RPush(ctx, movesKey(game.ID), history...)
			}
			return nil
		})
		return getErr
	}

	err = that.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: game %s changed during update", apperror.ErrConflict, game.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	game.Version = next.Version
	game.UpdatedAt = next.UpdatedAt

	return nil
}

func (that *dbGame) Expire(ctx context.Context, id string, ttl time.Duration) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Expire(ctx, gameKey(id), ttl)
		pipe.Expire(ctx, movesKey(id), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to expire game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w by id", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

// FindByType returns every stored game of the type with that id.
func (that *dbGame) FindByType(ctx context.Context, gameType entity.GameType, id string) ([]*entity.Game, error) {
	game, err := that.GetByID(ctx, id)
	if errors.Is(err, ErrGameNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if game.Type != gameType {
		return nil, nil
	}

	return []*entity.Game{game}, nil
}

func (that *dbGame) ListMoves(ctx context.Context, id string) ([]*entity.Move, error) {
	responses, err := that.client.LRange(ctx, movesKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}

	moves := make([]*entity.Move, 0, len(responses))
	for _, response := range responses {
		var move entity.Move
		if err = json.Unmarshal([]byte(response), &move); err != nil {
			return nil, fmt.Errorf("failed to unmarshal move: %w", err)
		}
		moves = append(moves, &move)
	}

	return moves, nil
}

// GetCurrent returns the id of the session new players join, empty when there is none.
func (that *dbGame) GetCurrent(ctx context.Context, gameType entity.GameType) (string, error) {
	id, err := that.client.Get(ctx, currentKey(gameType)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get current game: %w", err)
	}

	return id, nil
}

func (that *dbGame) SetCurrent(ctx context.Context, gameType entity.GameType, id string) error {
	if err := that.client.Set(ctx, currentKey(gameType), id, 0).Err(); err != nil {
		return fmt.Errorf("failed to set current game: %w", err)
	}

	return nil
}

// ClearCurrent only clears the pointer while it still names the given game.
func (that *dbGame) ClearCurrent(ctx context.Context, gameType entity.GameType, id string) error {
	if err := that.clearIfNames(ctx, currentKey(gameType), id); err != nil {
		return fmt.Errorf("failed to clear current game: %w", err)
	}

	return nil
}

func (that *dbGame) GetSeat(ctx context.Context, gameType entity.GameType, playerID string) (string, error) {
	id, err := that.client.Get(ctx, seatKey(gameType, playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get seat: %w", err)
	}

	return id, nil
}

func (that *dbGame) SetSeat(ctx context.Context, gameType entity.GameType, playerID, id string) error {
	if err := that.client.Set(ctx, seatKey(gameType, playerID), id, 0).Err(); err != nil {
		return fmt.Errorf("failed to set seat: %w", err)
	}

	return nil
}

// ClearSeat leaves a seat in a newer game untouched.
func (that *dbGame) ClearSeat(ctx context.Context, gameType entity.GameType, playerID, id string) error {
	if err := that.clearIfNames(ctx, seatKey(gameType, playerID), id); err != nil {
		return fmt.Errorf("failed to clear seat: %w", err)
	}

	return nil
}

// clearIfNames deletes the key while it holds id.
func (that *dbGame) clearIfNames(ctx context.Context, key, id string) error {
	err := that.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) || (err == nil && current != id) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}

	return err
}
