package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/testsupport"
)

func TestReviewThreads(t *testing.T) {
	svcs, repos := newTestServices(t)
	user := testsupport.NewUser(t, repos, "critic@example.com")
	movie := testsupport.NewMovie(t, repos, "Persona")

	r1, err := svcs.Review.PostReview(ctx, ReviewInput{MovieID: movie.ID, UserID: user.ID, Email: user.Email, Text: "Great"})
	require.NoError(t, err)
	r2, err := svcs.Review.PostReview(ctx, ReviewInput{MovieID: movie.ID, UserID: user.ID, Email: user.Email, Text: "Agree", ParentID: uintPtr(r1.ID)})
	require.NoError(t, err)
	r3, err := svcs.Review.PostReview(ctx, ReviewInput{MovieID: movie.ID, UserID: user.ID, Email: user.Email, Text: "Meh"})
	require.NoError(t, err)

	top, err := svcs.Review.ListTopLevel(ctx, movie.ID)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, r1.ID, top[0].ID)
	assert.Equal(t, r3.ID, top[1].ID)

	replies, err := svcs.Review.ListReplies(ctx, r1.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, r2.ID, replies[0].ID)

	threads, err := svcs.Review.Threads(ctx, movie.ID)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Len(t, threads[0].Replies, 1)
	assert.NotNil(t, threads[1].Replies)
	assert.Empty(t, threads[1].Replies)
}

func TestPostReviewParentChecks(t *testing.T) {
	svcs, repos := newTestServices(t)
	user := testsupport.NewUser(t, repos, "critic@example.com")
	m1 := testsupport.NewMovie(t, repos, "One")
	m2 := testsupport.NewMovie(t, repos, "Two")

	parent, err := svcs.Review.PostReview(ctx, ReviewInput{MovieID: m1.ID, UserID: user.ID, Email: user.Email, Text: "First"})
	require.NoError(t, err)

	_, err = svcs.Review.PostReview(ctx, ReviewInput{MovieID: m2.ID, UserID: user.ID, Email: user.Email, Text: "Reply", ParentID: uintPtr(parent.ID)})
	require.ErrorIs(t, err, ErrParentMismatch)

	_, err = svcs.Review.PostReview(ctx, ReviewInput{MovieID: m1.ID, UserID: user.ID, Email: user.Email, Text: "Reply", ParentID: uintPtr(parent.ID + 99)})
	require.ErrorIs(t, err, ErrReviewNotFound)

	count, err := repos.Review.CountByMovie(ctx, m2.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostReviewValidation(t *testing.T) {
	svcs, repos := newTestServices(t)
	user := testsupport.NewUser(t, repos, "critic@example.com")
	movie := testsupport.NewMovie(t, repos, "Ikiru")

	tests := []struct {
		name string
		in   ReviewInput
		want error
	}{
		{"anonymous", ReviewInput{MovieID: movie.ID, Email: "a@b.co", Text: "hi"}, ErrLoginRequired},
		{"bad email", ReviewInput{MovieID: movie.ID, UserID: user.ID, Email: "not-an-email", Text: "hi"}, ErrInvalidEmail},
		{"empty", ReviewInput{MovieID: movie.ID, UserID: user.ID, Email: "a@b.co", Text: "   "}, ErrEmptyReview},
		{"too long", ReviewInput{MovieID: movie.ID, UserID: user.ID, Email: "a@b.co", Text: strings.Repeat("x", model.MaxReviewLength+1)}, ErrReviewTooLong},
		{"unknown movie", ReviewInput{MovieID: movie.ID + 7, UserID: user.ID, Email: "a@b.co", Text: "hi"}, ErrMovieNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svcs.Review.PostReview(ctx, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPostReviewKeepsTextAsSubmitted(t *testing.T) {
	svcs, repos := newTestServices(t)
	user := testsupport.NewUser(t, repos, "critic@example.com")
	movie := testsupport.NewMovie(t, repos, "Ikiru")

	for _, text := range []string{
		"I think a<b is true & so on",
		"<b>Moving</b> film",
		"  indented\n\nsecond paragraph",
	} {
		review, err := svcs.Review.PostReview(ctx, ReviewInput{MovieID: movie.ID, UserID: user.ID, Email: user.Email, Text: text})
		require.NoError(t, err)
		assert.Equal(t, text, review.Text)

		stored, err := repos.Review.FindByID(ctx, review.ID)
		require.NoError(t, err)
		assert.Equal(t, text, stored.Text)
	}
}

func TestPostReviewLengthCountsRawInput(t *testing.T) {
	svcs, repos := newTestServices(t)
	user := testsupport.NewUser(t, repos, "critic@example.com")
	movie := testsupport.NewMovie(t, repos, "Ikiru")

	exact := strings.Repeat("字", model.MaxReviewLength)
	_, err := svcs.Review.PostReview(ctx, ReviewInput{MovieID: movie.ID, UserID: user.ID, Email: user.Email, Text: exact})
	require.NoError(t, err)

	wrapped := "<b>" + strings.Repeat("x", model.MaxReviewLength) + "</b>"
	_, err = svcs.Review.PostReview(ctx, ReviewInput{MovieID: movie.ID, UserID: user.ID, Email: user.Email, Text: wrapped})
	require.ErrorIs(t, err, ErrReviewTooLong)

	top, err := svcs.Review.ListTopLevel(ctx, movie.ID)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestReviewListingNotFound(t *testing.T) {
	svcs, _ := newTestServices(t)

	_, err := svcs.Review.ListTopLevel(ctx, 42)
	require.ErrorIs(t, err, ErrMovieNotFound)

	_, err = svcs.Review.ListReplies(ctx, 42)
	require.ErrorIs(t, err, ErrReviewNotFound)
}
