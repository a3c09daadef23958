package agent

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

type mockGamePlay struct {
	mock.Mock
}

func (that *mockGamePlay) Move(ctx context.Context, gameID string, move *entity.Move) (*entity.Move, error) {
	args := that.Called(ctx, gameID, move)
	return args.Get(0).(*entity.Move), args.Error(1)
}

func (that *mockGamePlay) Suggest(ctx context.Context, gameID string, suggestion *entity.Suggestion) (*entity.Suggestion, error) {
	args := that.Called(ctx, gameID, suggestion)
	return args.Get(0).(*entity.Suggestion), args.Error(1)
}

func (that *mockGamePlay) Candidates(ctx context.Context, gameID string) ([]*entity.Move, error) {
	args := that.Called(ctx, gameID)
	return args.Get(0).([]*entity.Move), args.Error(1)
}

type mockGames struct {
	mock.Mock
}

func (that *mockGames) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	return args.Get(0).(*entity.Game), args.Error(1)
}

func activeGame(seats ...*entity.GamePlayer) *entity.Game {
	game := entity.NewGame("g1", entity.DefaultVariants()[entity.Pente])
	for _, seat := range seats {
		game.AddPlayer(seat)
	}
	game.Start()
	return game
}

func newAgent(games *mockGames, gamePlay *mockGamePlay) *Agent {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger, games, gamePlay, time.Millisecond, 8)
}

func TestAgent_Play(t *testing.T) {
	t.Run("Bot submits the first valid candidate", func(t *testing.T) {
		// Given: a bot holding the turn and two candidates, one of them refused
		bot := &entity.GamePlayer{ID: "s1", PlayerID: entity.BotPrefix + "ada", Color: entity.Black}
		games := &mockGames{}
		games.On("GetGameByID", mock.Anything, "g1").Return(activeGame(bot), nil)

		refused := &entity.Move{PlayerID: "s1", Destination: entity.NewCell(1, 1, entity.Black)}
		accepted := &entity.Move{PlayerID: "s1", Destination: entity.NewCell(2, 2, entity.Black)}

		gamePlay := &mockGamePlay{}
		gamePlay.On("Candidates", mock.Anything, "g1").Return([]*entity.Move{refused, accepted}, nil)
		gamePlay.On("Suggest", mock.Anything, "g1", mock.MatchedBy(func(s *entity.Suggestion) bool {
			return s.Destination == refused.Destination
		})).Return(&entity.Suggestion{Status: entity.StatusInvalid}, nil)
		gamePlay.On("Suggest", mock.Anything, "g1", mock.MatchedBy(func(s *entity.Suggestion) bool {
			return s.Destination == accepted.Destination
		})).Return(&entity.Suggestion{Status: entity.StatusValid}, nil)
		gamePlay.On("Move", mock.Anything, "g1", accepted).Return(&entity.Move{Status: entity.StatusValid, Sequence: 1}, nil)

		// When: the agent plays
		err := newAgent(games, gamePlay).play(context.Background(), "g1")

		// Then: only the accepted candidate was submitted
		require.NoError(t, err)
		gamePlay.AssertCalled(t, "Move", mock.Anything, "g1", accepted)
		gamePlay.AssertNumberOfCalls(t, "Move", 1)
	})

	t.Run("Human turn is left alone", func(t *testing.T) {
		human := &entity.GamePlayer{ID: "s1", PlayerID: "ada", Color: entity.Black}
		games := &mockGames{}
		games.On("GetGameByID", mock.Anything, "g1").Return(activeGame(human), nil)
		gamePlay := &mockGamePlay{}

		err := newAgent(games, gamePlay).play(context.Background(), "g1")

		require.NoError(t, err)
		gamePlay.AssertNotCalled(t, "Candidates", mock.Anything, mock.Anything)
	})

	t.Run("No legal move", func(t *testing.T) {
		bot := &entity.GamePlayer{ID: "s1", PlayerID: entity.BotPrefix + "ada", Color: entity.Black}
		games := &mockGames{}
		games.On("GetGameByID", mock.Anything, "g1").Return(activeGame(bot), nil)
		gamePlay := &mockGamePlay{}
		gamePlay.On("Candidates", mock.Anything, "g1").Return([]*entity.Move{}, nil)

		err := newAgent(games, gamePlay).play(context.Background(), "g1")

		require.ErrorIs(t, err, ErrNoAvailableMoves)
	})
}

func TestAgent_Run(t *testing.T) {
	// Given: a running agent
	bot := &entity.GamePlayer{ID: "s1", PlayerID: entity.BotPrefix + "ada", Color: entity.Black}
	game := activeGame(bot)
	candidate := &entity.Move{PlayerID: "s1", Destination: entity.NewCell(9, 9, entity.Black)}

	moved := make(chan struct{})
	games := &mockGames{}
	games.On("GetGameByID", mock.Anything, "g1").Return(game, nil)
	gamePlay := &mockGamePlay{}
	gamePlay.On("Candidates", mock.Anything, "g1").Return([]*entity.Move{candidate}, nil)
	gamePlay.On("Suggest", mock.Anything, "g1", mock.Anything).Return(&entity.Suggestion{Status: entity.StatusValid}, nil)
	gamePlay.On("Move", mock.Anything, "g1", candidate).
		Run(func(mock.Arguments) { close(moved) }).
		Return(&entity.Move{Status: entity.StatusValid}, nil)

	agent := newAgent(games, gamePlay)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- agent.Run(ctx) }()

	// When: a move event and a BEGIN event arrive
	agent.Handle(entity.NewEvent(entity.EventMoveComplete, game, nil))
	agent.Handle(entity.NewEvent(entity.EventBegin, game, nil))

	// Then: the bot moves once and Run stops with the context
	select {
	case <-moved:
	case <-time.After(time.Second):
		t.Fatal("bot did not move")
	}

	cancel()
	assert.NoError(t, <-done)
	gamePlay.AssertNumberOfCalls(t, "Candidates", 1)
}
