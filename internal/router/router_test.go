package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moviesphere/internal/config"
	"github.com/user/moviesphere/internal/handler"
	"github.com/user/moviesphere/internal/middleware"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
	"github.com/user/moviesphere/internal/service"
	"github.com/user/moviesphere/internal/testsupport"
)

const testSecret = "router-test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
}

type testServer struct {
	engine *gin.Engine
	repos  *repository.Repositories
}

func newTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := testsupport.MustOpenDB(t)
	logger := testsupport.Logger(t)
	cfg := &config.Config{
		Env:           "test",
		AppSecret:     testSecret,
		JWTExpiry:     time.Hour,
		SiteName:      "MovieSphere",
		LogLevel:      "debug",
		MoviesPerPage: 5,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	svcs := service.NewServices(repos, service.Options{MoviesPerPage: cfg.MoviesPerPage}, logger)
	return &testServer{
		engine: New(handler.NewHandler(svcs, cfg, logger), logger),
		repos:  repos,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, opts ...func(*http.Request)) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func from(addr string) func(*http.Request) {
	return func(r *http.Request) { r.RemoteAddr = addr + ":40000" }
}

func asUser(t *testing.T, user *model.User) func(*http.Request) {
	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, testSecret, time.Hour)
	require.NoError(t, err)
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/health", nil, func(r *http.Request) {
		r.Header.Set(middleware.RequestIDHeader, "abc-123")
	})
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/ratings", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRatingFlow(t *testing.T) {
	s := newTestServer(t)
	movie := testsupport.NewMovie(t, s.repos, "Dune")

	rec, env := s.do(t, http.MethodPost, "/api/ratings", gin.H{"movie_id": movie.ID, "star": 7}, from("203.0.113.5"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var got struct {
		Rating        int     `json:"rating"`
		AverageRating float64 `json:"average_rating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 7.0, got.AverageRating)

	rec, env = s.do(t, http.MethodPost, "/api/ratings", gin.H{"movie_id": movie.ID, "star": 3}, from("203.0.113.5"))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 3, got.Rating)
	assert.Equal(t, 3.0, got.AverageRating)

	_, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/ratings?movie_id=%d", movie.ID), nil, from("203.0.113.5"))
	var mine struct {
		Rating *int `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.NotNil(t, mine.Rating)
	assert.Equal(t, 3, *mine.Rating)

	_, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/ratings?movie_id=%d", movie.ID), nil, from("198.51.100.1"))
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Nil(t, mine.Rating)
}

func forwardedFor(ip string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("X-Forwarded-For", ip) }
}

func TestRatingOriginIgnoresUntrustedForwardedFor(t *testing.T) {
	s := newTestServer(t)
	movie := testsupport.NewMovie(t, s.repos, "Stalker")

	for i, star := range []int{9, 2} {
		spoofed := fmt.Sprintf("198.51.100.%d", i+1)
		rec, _ := s.do(t, http.MethodPost, "/api/ratings", gin.H{"movie_id": movie.ID, "star": star},
			from("203.0.113.5"), forwardedFor(spoofed))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	count, err := s.repos.Rating.CountByMovie(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	rating, err := s.repos.Rating.FindByOrigin(context.Background(), movie.ID, "203.0.113.5")
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.Equal(t, 2, rating.Star)
}

func TestRatingOriginBehindTrustedProxy(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.TrustedProxies = []string{"10.0.0.1"} })
	movie := testsupport.NewMovie(t, s.repos, "Stalker")

	for i, star := range []int{9, 2} {
		client := fmt.Sprintf("198.51.100.%d", i+1)
		rec, _ := s.do(t, http.MethodPost, "/api/ratings", gin.H{"movie_id": movie.ID, "star": star},
			from("10.0.0.1"), forwardedFor(client))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	count, err := s.repos.Rating.CountByMovie(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	rating, err := s.repos.Rating.FindByOrigin(context.Background(), movie.ID, "198.51.100.2")
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.Equal(t, 2, rating.Star)
}

func TestRatingErrors(t *testing.T) {
	s := newTestServer(t)
	movie := testsupport.NewMovie(t, s.repos, "Dune")

	rec, env := s.do(t, http.MethodPost, "/api/ratings", gin.H{"movie_id": movie.ID, "star": 11})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STAR", env.Reason)

	rec, env = s.do(t, http.MethodPost, "/api/ratings", gin.H{"movie_id": movie.ID + 1, "star": 5})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "MOVIE_NOT_FOUND", env.Reason)

	rec, _ = s.do(t, http.MethodPost, "/api/ratings", gin.H{"movie_id": movie.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInteractions(t *testing.T) {
	s := newTestServer(t)
	user := testsupport.NewUser(t, s.repos, "fan@example.com")
	movie := testsupport.NewMovie(t, s.repos, "Paprika")
	path := fmt.Sprintf("/api/interactions/%d/favorite", movie.ID)

	rec, _ := s.do(t, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := s.do(t, http.MethodPost, path, nil, asUser(t, user))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"is_favorite":true}`, string(env.Data))

	_, env = s.do(t, http.MethodGet, "/api/me/favorites", nil, asUser(t, user))
	var page model.Page[*model.Movie]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, movie.ID, page.Items[0].ID)

	rec, env = s.do(t, http.MethodPost, fmt.Sprintf("/api/interactions/%d/liked", movie.ID), nil, asUser(t, user))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_KIND", env.Reason)
}

func TestReviews(t *testing.T) {
	s := newTestServer(t)
	user := testsupport.NewUser(t, s.repos, "critic@example.com")
	movie := testsupport.NewMovie(t, s.repos, "Akira")
	path := fmt.Sprintf("/api/reviews/%d", movie.ID)

	rec, _ := s.do(t, http.MethodPost, path, gin.H{"text": "anon"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := s.do(t, http.MethodPost, path, gin.H{"text": "Neo-Tokyo"}, asUser(t, user))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var parent model.Review
	require.NoError(t, json.Unmarshal(env.Data, &parent))
	assert.Equal(t, user.Email, parent.Email)

	rec, _ = s.do(t, http.MethodPost, path, gin.H{"text": "Agreed", "parent_id": parent.ID}, asUser(t, user))
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env = s.do(t, http.MethodGet, path, nil)
	var threads []model.ReviewThread
	require.NoError(t, json.Unmarshal(env.Data, &threads))
	require.Len(t, threads, 1)
	assert.Len(t, threads[0].Replies, 1)

	rec, env = s.do(t, http.MethodPost, path, gin.H{"text": "x", "email": "nope"}, asUser(t, user))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_EMAIL", env.Reason)
}

func TestMovieEndpoints(t *testing.T) {
	s := newTestServer(t)
	drama := testsupport.NewGenre(t, s.repos, "Drama", "drama")
	a := testsupport.NewMovie(t, s.repos, "Tokyo Story", testsupport.WithGenres(drama), testsupport.Year(1953))
	b := testsupport.NewMovie(t, s.repos, "Late Spring", testsupport.Year(1949))
	testsupport.Rate(t, s.repos, b.ID, "x", 9)

	_, env := s.do(t, http.MethodGet, "/api/movies?genre=drama", nil)
	var page model.Page[*model.Movie]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.ID, page.Items[0].ID)

	_, env = s.do(t, http.MethodGet, "/api/movies?year=1949,1953", nil)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 2, page.Total)

	rec, env := s.do(t, http.MethodGet, "/api/movies/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EMPTY_QUERY", env.Reason)

	_, env = s.do(t, http.MethodGet, "/api/movies/popular?limit=3", nil)
	var popular []*model.Movie
	require.NoError(t, json.Unmarshal(env.Data, &popular))
	require.Len(t, popular, 1)
	assert.Equal(t, b.ID, popular[0].ID)

	rec, env = s.do(t, http.MethodGet, "/api/movies/"+a.Slug, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail service.MovieDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, a.ID, detail.Movie.ID)

	rec, env = s.do(t, http.MethodGet, "/api/movies/no-such-film", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "MOVIE_NOT_FOUND", env.Reason)

	rec, _ = s.do(t, http.MethodGet, "/api/movies/random", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterLoginProfile(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/auth/register", gin.H{
		"email":            "new@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := s.do(t, http.MethodPost, "/auth/login", gin.H{"email": "new@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "BAD_CREDENTIALS", env.Reason)

	rec, _ = s.do(t, http.MethodPost, "/auth/login", gin.H{"email": "new@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var token *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			token = c
		}
	}
	require.NotNil(t, token)

	rec, env = s.do(t, http.MethodGet, "/dashboard/profile", nil, func(r *http.Request) { r.AddCookie(token) })
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		User model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "new", profile.User.Username)

	rec, _ = s.do(t, http.MethodGet, "/dashboard/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
