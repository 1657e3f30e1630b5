package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	playermock "github.com/riskibarqy/fpl-hub/internal/mocks/domain/player"
	basecache "github.com/riskibarqy/fpl-hub/internal/platform/cache"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testPlayers() []player.Player {
	return []player.Player{
		{ID: id.ID("1"), ClubID: "ARS", ClubName: "Arsenal", Name: "Raya", Position: player.PositionGoalkeeper, Price: 55},
		{ID: id.ID("20"), ClubID: "MCI", ClubName: "Manchester City", Name: "Haaland", Position: player.PositionForward, Price: 140},
	}
}

func TestPlayerRepository_ListLoadsOnce(t *testing.T) {
	ctx := context.Background()
	next := playermock.NewRepository(t)
	next.On("List", mock.Anything).Return(testPlayers(), nil).Once()

	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))

	first, err := repo.List(ctx)
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, "Raya", second[0].Name)
}

func TestPlayerRepository_GetByIDsKeyIgnoresOrder(t *testing.T) {
	ctx := context.Background()
	players := testPlayers()
	next := playermock.NewRepository(t)
	next.On("GetByIDs", mock.Anything, []id.ID{"20", "1"}).Return(players, nil).Once()

	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))

	got, err := repo.GetByIDs(ctx, []id.ID{"20", "1"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.GetByIDs(ctx, []id.ID{"1", "20"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestPlayerRepository_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	next := playermock.NewRepository(t)
	next.On("List", mock.Anything).Return(nil, errors.New("catalog down")).Once()
	next.On("List", mock.Anything).Return(testPlayers(), nil).Once()

	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))

	_, err := repo.List(ctx)
	require.Error(t, err)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestPlayerRepository_EmptyIDsSkipsCatalog(t *testing.T) {
	next := playermock.NewRepository(t)
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))

	got, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
