package rules

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

var (
	ErrNotSeated     = errors.New("player is not seated in this game")
	ErrOutsideBoard  = errors.New("cell is outside the board")
	ErrForeignColor  = errors.New("color does not belong to the player")
	ErrFixedPieces   = errors.New("pieces cannot be moved once placed")
	ErrNoPieceToMove = errors.New("a piece must be moved")
	ErrNotYourPiece  = errors.New("no piece of yours at the source cell")
	ErrIllegalStep   = errors.New("pieces move one step diagonally forward or jump an opposing piece")
	ErrNothingToTake = errors.New("jump does not capture an opposing piece")
)

// Verdict - the outcome of validating a move against a grid.
type Verdict struct {
	Status   entity.MoveStatus
	Reason   string
	Mutation entity.Mutation
}

func (that Verdict) IsValid() bool {
	return that.Status == entity.StatusValid
}

func valid(mutation entity.Mutation) Verdict {
	return Verdict{Status: entity.StatusValid, Mutation: mutation}
}

// Invalid rejects with the error text as the reason.
func Invalid(err error) Verdict {
	return Verdict{Status: entity.StatusInvalid, Reason: err.Error()}
}

// Evaluator decides legality for one game type. Implementations must not mutate the grid they are given in Validate.
type Evaluator interface {
	Validate(grid *entity.Grid, roster []*entity.GamePlayer, move *entity.Move) Verdict
	// IsTerminal gets the roster in turn order, starting with the seat about to move.
	IsTerminal(grid *entity.Grid, roster []*entity.GamePlayer) bool

	// Setup lays out the starting position when the session becomes active.
	Setup(grid *entity.Grid, roster []*entity.GamePlayer)
	// Candidates lists legal moves for the seat, in a stable order.
	Candidates(grid *entity.Grid, seat *entity.GamePlayer) []*entity.Move
}

type Registry struct {
	evaluators map[entity.GameType]Evaluator
}

// NewRegistry registers the bundled evaluators for every variant in the catalogue.
func NewRegistry(variants entity.Variants) *Registry {
	registry := &Registry{evaluators: make(map[entity.GameType]Evaluator, len(variants))}

	for gameType, variant := range variants {
		switch gameType {
		case entity.Pente:
			registry.Register(gameType, NewPente(variant))
		case entity.Checkers:
			registry.Register(gameType, NewCheckers(variant))
		}
	}

	return registry
}

func (that *Registry) Register(gameType entity.GameType, evaluator Evaluator) {
	that.evaluators[gameType] = evaluator
}

func (that *Registry) Get(gameType entity.GameType) (Evaluator, error) {
	evaluator, ok := that.evaluators[gameType]
	if !ok {
		return nil, fmt.Errorf("%w: no rules for %q", apperror.ErrUnknownGameType, gameType)
	}
	return evaluator, nil
}

func seatOf(roster []*entity.GamePlayer, seatID string) *entity.GamePlayer {
	for _, seat := range roster {
		if seat.ID == seatID {
			return seat
		}
	}
	return nil
}
