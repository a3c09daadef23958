package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
	"github.com/rocketscienceinc/multigame-backend/internal/pattern"
	"github.com/rocketscienceinc/multigame-backend/internal/rules"
)

// GamePlayService drives a session once it is active.
// Rule violations come back as INVALID moves, errors are reserved for lookup, conflict and storage failures.
type GamePlayService interface {
	Move(ctx context.Context, gameID string, move *entity.Move) (*entity.Move, error)
	Suggest(ctx context.Context, gameID string, suggestion *entity.Suggestion) (*entity.Suggestion, error)
	ListMoves(ctx context.Context, gameID string) ([]*entity.Move, error)
	// Candidates lists legal moves for the seat currently holding the turn.
	Candidates(ctx context.Context, gameID string) ([]*entity.Move, error)
}

type gamePlayService struct {
	logger *slog.Logger

	gameService   GameService
	playerService PlayerService
	rules         ruleBook
	notifier      eventNotifier
	locker        *Locker
	variants      entity.Variants
}

func NewGamePlayService(
	logger *slog.Logger,
	gameService GameService,
	playerService PlayerService,
	rules ruleBook,
	notifier eventNotifier,
	locker *Locker,
	variants entity.Variants,
) GamePlayService {
	return &gamePlayService{
		logger:        logger.With("component", "gamePlay"),
		gameService:   gameService,
		playerService: playerService,
		rules:         rules,
		notifier:      notifier,
		locker:        locker,
		variants:      variants,
	}
}

type turnUpdate struct {
	Turn    int                  `json:"turn"`
	Current string               `json:"current"`
	Players []*entity.GamePlayer `json:"players"`
}

func (that *gamePlayService) Move(ctx context.Context, gameID string, move *entity.Move) (*entity.Move, error) {
	log := that.logger.With("method", "move", "gameID", gameID, "seatID", move.PlayerID)

	unlock, err := that.locker.Lock(ctx, gameLockKey(gameID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	variant, err := that.variants.Get(game.Type)
	if err != nil {
		return nil, err
	}

	evaluator, err := that.rules.Get(game.Type)
	if err != nil {
		return nil, err
	}

	result := *move
	result.GameID = game.ID
	result.Status = entity.StatusPending
	result.Reason = ""

	verdict := evaluate(game, evaluator, &result)
	if !verdict.IsValid() {
		result.Reject(verdict.Reason)
		log.Info("move rejected", "reason", verdict.Reason)
		return &result, nil
	}

	seat := game.CurrentPlayer()
	verdict.Mutation.Apply(game.Grid)

	result.ID = uuid.NewString()
	result.Status = entity.StatusValid
	result.Sequence = game.MoveCount + 1
	result.CreatedAt = time.Now().UTC()
	result.Destination.Color = seat.Color
	if result.Current != nil {
		current := *result.Current
		current.Color = seat.Color
		result.Current = &current
	}

	game.MoveCount++
	seat.Score += verdict.Mutation.ScoreDelta
	if variant.ScoresAlignments {
		scanner := pattern.NewScanner(variant.TriaScore, variant.TesseraScore)
		scanner.ScanAll(game.Grid, verdict.Mutation.Place, seat.Recorded()).Apply(seat)
	}

	if variant.WinningScore > 0 && seat.Score >= variant.WinningScore {
		game.Finish(seat.ID)
	} else {
		game.AdvanceTurn()
		if evaluator.IsTerminal(game.Grid, game.TurnOrder()) {
			winner := ""
			if leader := game.Leader(); leader != nil {
				winner = leader.ID
			}
			game.Finish(winner)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game, &result); err != nil {
		return nil, err
	}

	log.Info("move applied", "sequence", result.Sequence, "score", seat.Score, "state", game.State)

	that.notifier.Emit(ctx, entity.NewEvent(entity.EventMoveComplete, game, &result))

	if !game.IsEnded() {
		that.notifier.Emit(ctx, entity.NewEvent(entity.EventPlayerChange, game, turnUpdate{
			Turn:    game.Turn,
			Current: game.CurrentPlayer().ID,
			Players: game.Players,
		}))
		return &result, nil
	}

	that.gameService.EndGame(ctx, game)

	if winner := game.Seat(game.Winner); winner != nil {
		if err = that.playerService.RecordWin(ctx, winner.PlayerID); err != nil {
			log.Error("failed to record win", "error", err)
		}
	}

	that.notifier.Emit(ctx, entity.NewEvent(entity.EventEnd, game, game))

	return &result, nil
}

// Suggest evaluates without the move lock against the snapshot it reads.
func (that *gamePlayService) Suggest(ctx context.Context, gameID string, suggestion *entity.Suggestion) (*entity.Suggestion, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	evaluator, err := that.rules.Get(game.Type)
	if err != nil {
		return nil, err
	}

	result := *suggestion
	verdict := evaluate(game, evaluator, result.AsMove())

	result.Status = verdict.Status
	result.Reason = verdict.Reason

	return &result, nil
}

func (that *gamePlayService) ListMoves(ctx context.Context, gameID string) ([]*entity.Move, error) {
	return that.gameService.ListMoves(ctx, gameID)
}

func (that *gamePlayService) Candidates(ctx context.Context, gameID string) ([]*entity.Move, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	seat := game.CurrentPlayer()
	if seat == nil {
		return nil, nil
	}

	evaluator, err := that.rules.Get(game.Type)
	if err != nil {
		return nil, err
	}

	return evaluator.Candidates(game.Grid.Clone(), seat), nil
}

// evaluate checks session state and turn before asking the rules, on a copy of the grid.
func evaluate(game *entity.Game, evaluator rules.Evaluator, move *entity.Move) rules.Verdict {
	if err := game.ConfirmActiveState(); err != nil {
		return rules.Invalid(err)
	}

	if !game.IsTurnOf(move.PlayerID) {
		return rules.Invalid(apperror.ErrNotYourTurn)
	}

	return evaluator.Validate(game.Grid.Clone(), game.Players, move)
}
