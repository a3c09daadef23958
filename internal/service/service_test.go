package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/multigame-backend/internal/entity"
	"github.com/rocketscienceinc/multigame-backend/internal/repository"
	"github.com/rocketscienceinc/multigame-backend/internal/rules"
	"github.com/rocketscienceinc/multigame-backend/testing/suite"
)

type mockNotifier struct {
	mock.Mock
}

func (that *mockNotifier) Emit(ctx context.Context, event entity.Event) {
	that.Called(ctx, event)
}

// kinds lists emitted event kinds for one game, in order.
func (that *mockNotifier) kinds(gameID string) []entity.EventKind {
	var kinds []entity.EventKind
	for _, call := range that.Calls {
		event := call.Arguments.Get(1).(entity.Event)
		if event.GameID == gameID {
			kinds = append(kinds, event.Kind)
		}
	}
	return kinds
}

type harness struct {
	*suite.Suite

	games      GameService
	players    PlayerService
	matchmaker Matchmaker
	gamePlay   GamePlayService
	locker     *Locker
	notifier   *mockNotifier
}

func newHarness(t *testing.T) (context.Context, *harness) {
	t.Helper()

	ctx, st := suite.New(t)

	notifier := &mockNotifier{}
	notifier.On("Emit", mock.Anything, mock.Anything).Return()

	variants := entity.DefaultVariants()
	ruleBook := rules.NewRegistry(variants)
	locker := NewLocker(5 * time.Second)

	games := NewGameService(st.Logger,
		repository.NewGameRepository(st.Storage),
		repository.NewArchiveRepository(st.Archive.Connection),
		time.Minute,
	)
	players := NewPlayerService(repository.NewPlayerRepository(st.Storage))

	return ctx, &harness{
		Suite:      st,
		games:      games,
		players:    players,
		matchmaker: NewMatchmaker(st.Logger, games, players, ruleBook, notifier, locker, variants),
		gamePlay:   NewGamePlayService(st.Logger, games, players, ruleBook, notifier, locker, variants),
		locker:     locker,
		notifier:   notifier,
	}
}

// seatAll registers one player per seat and returns the seats in turn order.
func (that *harness) seatAll(ctx context.Context, gameType entity.GameType, prefix string) []*entity.GamePlayer {
	that.Helper()

	variant := entity.DefaultVariants()[gameType]
	seats := make([]*entity.GamePlayer, 0, variant.Players)
	for i := range variant.Players {
		seat, err := that.matchmaker.RegisterPlayer(ctx, &entity.Player{ID: fmt.Sprintf("%s%d", prefix, i+1)}, gameType)
		require.NoError(that.T, err)
		seats = append(seats, seat)
	}
	return seats
}

func (that *harness) game(ctx context.Context, id string) *entity.Game {
	that.Helper()

	game, err := that.games.GetGameByID(ctx, id)
	require.NoError(that.T, err)
	return game
}

func place(seat *entity.GamePlayer, column, row int) *entity.Move {
	return &entity.Move{PlayerID: seat.ID, Destination: entity.NewCell(column, row, entity.NoColor)}
}

func step(seat *entity.GamePlayer, from, to [2]int) *entity.Move {
	current := entity.NewCell(from[0], from[1], seat.Color)
	return &entity.Move{PlayerID: seat.ID, Current: &current, Destination: entity.NewCell(to[0], to[1], seat.Color)}
}
