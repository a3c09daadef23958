package agent

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

type gamePlay interface {
	Move(ctx context.Context, gameID string, move *entity.Move) (*entity.Move, error)
	Suggest(ctx context.Context, gameID string, suggestion *entity.Suggestion) (*entity.Suggestion, error)
	Candidates(ctx context.Context, gameID string) ([]*entity.Move, error)
}

type gameReader interface {
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

// Agent plays the turns of bot seats. It reacts to game events through its own queue.
type Agent struct {
	logger *slog.Logger

	games    gameReader
	gamePlay gamePlay
	delay    time.Duration
	queue    chan entity.Event
}

func New(logger *slog.Logger, games gameReader, gamePlay gamePlay, delay time.Duration, buffer int) *Agent {
	return &Agent{
		logger:   logger.With("component", "agent"),
		games:    games,
		gamePlay: gamePlay,
		delay:    delay,
		queue:    make(chan entity.Event, max(buffer, 1)),
	}
}

// Handle queues the event without blocking; a full queue drops it.
func (that *Agent) Handle(event entity.Event) {
	if event.Kind != entity.EventBegin && event.Kind != entity.EventPlayerChange {
		return
	}

	select {
	case that.queue <- event:
	default:
		that.logger.Warn("agent queue is full, dropping event", "kind", event.Kind, "gameID", event.GameID)
	}
}

// Run works through queued events until the context is done.
func (that *Agent) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-that.queue:
			if err := that.play(ctx, event.GameID); err != nil {
				that.logger.Warn("bot turn failed", "gameID", event.GameID, "error", err)
			}
		}
	}
}

func (that *Agent) play(ctx context.Context, gameID string) error {
	log := that.logger.With("method", "play", "gameID", gameID)

	game, err := that.games.GetGameByID(ctx, gameID)
	if err != nil {
		return err
	}

	seat := game.CurrentPlayer()
	if seat == nil || !seat.IsBot() {
		return nil
	}

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(that.delay):
	}

	candidates, err := that.gamePlay.Candidates(ctx, gameID)
	if err != nil {
		return err
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, candidate := range candidates {
		// the turn may have moved on while we were waiting
		if candidate.PlayerID != seat.ID {
			return nil
		}

		suggestion, err := that.gamePlay.Suggest(ctx, gameID, &entity.Suggestion{
			PlayerID:    candidate.PlayerID,
			Current:     candidate.Current,
			Destination: candidate.Destination,
		})
		if err != nil {
			return err
		}
		if suggestion.Status != entity.StatusValid {
			continue
		}

		move, err := that.gamePlay.Move(ctx, gameID, candidate)
		if errors.Is(err, apperror.ErrConflict) {
			log.Info("game busy, bot turn skipped", "seatID", seat.ID)
			return nil
		}
		if err != nil {
			return err
		}

		if !move.IsValid() {
			log.Info("bot move rejected", "seatID", seat.ID, "reason", move.Reason)
			return nil
		}

		log.Info("bot moved", "seatID", seat.ID, "sequence", move.Sequence)
		return nil
	}

	return ErrNoAvailableMoves
}
