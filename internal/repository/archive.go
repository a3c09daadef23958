package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

// ArchiveRepository keeps ended games and their history after the live copy expires.
type ArchiveRepository interface {
	Save(ctx context.Context, game *entity.Game, moves []*entity.Move) error

	GetByID(ctx context.Context, id string) (*entity.Game, error)
	FindByType(ctx context.Context, gameType entity.GameType, id string) ([]*entity.Game, error)
	ListMoves(ctx context.Context, id string) ([]*entity.Move, error)
}

type archiveRepository struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &archiveRepository{
		conn: conn,
	}
}

func (that *archiveRepository) Save(ctx context.Context, game *entity.Game, moves []*entity.Move) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("can't marshal game: %w", err)
	}

	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin archive transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT OR REPLACE INTO games (id, type, mode, winner, move_count, payload, created_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, query,
		game.ID, string(game.Type), string(game.Mode), game.Winner, game.MoveCount, string(gameJSON),
		game.CreatedAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("can't save game: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM moves WHERE game_id = ?`, game.ID); err != nil {
		return fmt.Errorf("can't reset moves: %w", err)
	}

	for _, move := range moves {
		moveJSON, marshalErr := json.Marshal(move)
		if marshalErr != nil {
			return fmt.Errorf("can't marshal move: %w", marshalErr)
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO moves (game_id, sequence, payload) VALUES (?, ?, ?)`,
			game.ID, move.Sequence, string(moveJSON))
		if err != nil {
			return fmt.Errorf("can't save move: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit archive: %w", err)
	}

	return nil
}

func (that *archiveRepository) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	query := `SELECT payload FROM games WHERE id = ?`

	var payload string
	err := that.conn.QueryRowContext(ctx, query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find game: %w", err)
	}

	var game entity.Game
	if err = json.Unmarshal([]byte(payload), &game); err != nil {
		return nil, fmt.Errorf("can't unmarshal game: %w", err)
	}

	return &game, nil
}

func (that *archiveRepository) FindByType(ctx context.Context, gameType entity.GameType, id string) ([]*entity.Game, error) {
	query := `SELECT payload FROM games WHERE type = ? AND id = ?`

	rows, err := that.conn.QueryContext(ctx, query, string(gameType), id)
	if err != nil {
		return nil, fmt.Errorf("can't find games: %w", err)
	}
	defer rows.Close()

	var games []*entity.Game
	for rows.Next() {
		var payload string
		if err = rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("can't scan game: %w", err)
		}

		var game entity.Game
		if err = json.Unmarshal([]byte(payload), &game); err != nil {
			return nil, fmt.Errorf("can't unmarshal game: %w", err)
		}
		games = append(games, &game)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read games: %w", err)
	}

	return games, nil
}

func (that *archiveRepository) ListMoves(ctx context.Context, id string) ([]*entity.Move, error) {
	query := `SELECT payload FROM moves WHERE game_id = ? ORDER BY sequence`

	rows, err := that.conn.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("can't list moves: %w", err)
	}
	defer rows.Close()

	moves := make([]*entity.Move, 0)
	for rows.Next() {
		var payload string
		if err = rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("can't scan move: %w", err)
		}

		var move entity.Move
		if err = json.Unmarshal([]byte(payload), &move); err != nil {
			return nil, fmt.Errorf("can't unmarshal move: %w", err)
		}
		moves = append(moves, &move)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read moves: %w", err)
	}

	return moves, nil
}
