package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
	"github.com/user/moviesphere/internal/testsupport"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, repository.IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, repository.IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, repository.IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, repository.IsUniqueViolation(errors.New("boom")))
	assert.False(t, repository.IsUniqueViolation(nil))

	repos := testsupport.MustOpenDB(t)
	ctx := context.Background()
	require.NoError(t, repos.Catalog.CreateGenre(ctx, &model.Genre{Name: "Drama", Slug: "drama"}))
	err := repos.Catalog.CreateGenre(ctx, &model.Genre{Name: "Drama again", Slug: "drama"})
	require.Error(t, err)
	assert.True(t, repository.IsUniqueViolation(err))
}

func TestInteractionToggleConcurrent(t *testing.T) {
	repos := testsupport.MustOpenDB(t)
	ctx := context.Background()
	user := testsupport.NewUser(t, repos, "u@example.com")
	movie := testsupport.NewMovie(t, repos, "Toggle")

	const n = 10
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repos.Interaction.Toggle(ctx, user.ID, movie.ID, model.KindWatched)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 偶数次翻转回到初始状态
	rec, err := repos.Interaction.Get(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.False(t, rec.IsWatched)
	assert.False(t, rec.IsFavorite)
}

func TestRatingTotalsAndScores(t *testing.T) {
	repos := testsupport.MustOpenDB(t)
	ctx := context.Background()
	a := testsupport.NewMovie(t, repos, "A")
	b := testsupport.NewMovie(t, repos, "B")
	testsupport.Rate(t, repos, a.ID, "x", 8)
	testsupport.Rate(t, repos, a.ID, "y", 6)
	testsupport.Rate(t, repos, a.ID, "x", 10)
	testsupport.Rate(t, repos, b.ID, "x", 8)

	sum, count, err := repos.Rating.Totals(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 16, sum)
	assert.EqualValues(t, 2, count)

	scores, err := repos.Rating.TopScores(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, a.ID, scores[0].MovieID)
	assert.InDelta(t, 8.0, scores[0].Average, 0.0001)
	assert.Equal(t, b.ID, scores[1].MovieID)

	rated, err := repos.Rating.CountRatedMovies(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rated)
}

func TestFindByIDsKeepsOrder(t *testing.T) {
	repos := testsupport.MustOpenDB(t)
	a := testsupport.NewMovie(t, repos, "A")
	b := testsupport.NewMovie(t, repos, "B")

	movies, err := repos.Movie.FindByIDs(context.Background(), []uint{b.ID, 999, a.ID})
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, b.ID, movies[0].ID)
	assert.Equal(t, a.ID, movies[1].ID)
}
