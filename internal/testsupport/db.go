package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

var seq atomic.Int64

// MustOpenDB 在临时目录中打开一个已迁移的 SQLite 数据库，测试结束时自动关闭
func MustOpenDB(t testing.TB) *repository.Repositories {
	t.Helper()

	path := filepath.Join(t.TempDir(), "moviesphere.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return repository.NewRepositories(db)
}

// Logger 测试用日志，输出到 t.Log
func Logger(t testing.TB) log.Logger {
	return log.NewStdLogger(testWriter{t})
}

type testWriter struct{ t testing.TB }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// MovieOption 调整测试影片字段
type MovieOption func(*model.Movie)

// Draft 草稿
func Draft() MovieOption { return func(m *model.Movie) { m.Draft = true } }

// Series 剧集
func Series() MovieOption { return func(m *model.Movie) { m.IsSeries = true } }

// EditorsChoice 编辑精选
func EditorsChoice() MovieOption { return func(m *model.Movie) { m.IsEditorsChoice = true } }

// Year 首映年份
func Year(y int) MovieOption {
	return func(m *model.Movie) {
		premiere := time.Date(y, time.June, 1, 0, 0, 0, 0, time.UTC)
		m.WorldPremiere = &premiere
		m.Year = y
	}
}

// InCategory 所属分类
func InCategory(c *model.Category) MovieOption {
	return func(m *model.Movie) { m.CategoryID = &c.ID }
}

// WithGenres 类型
func WithGenres(genres ...*model.Genre) MovieOption {
	return func(m *model.Movie) {
		for _, g := range genres {
			m.Genres = append(m.Genres, *g)
		}
	}
}

// WithActors 演员
func WithActors(actors ...*model.Actor) MovieOption {
	return func(m *model.Movie) {
		for _, a := range actors {
			m.Actors = append(m.Actors, *a)
		}
	}
}

// Describe 简介
func Describe(text string) MovieOption {
	return func(m *model.Movie) { m.Description = text }
}

// NewMovie 创建测试影片，slug 自动生成且唯一
func NewMovie(t testing.TB, repos *repository.Repositories, title string, opts ...MovieOption) *model.Movie {
	t.Helper()

	movie := &model.Movie{
		Title: title,
		Slug:  fmt.Sprintf("movie-%d", seq.Add(1)),
	}
	for _, opt := range opts {
		opt(movie)
	}
	if err := repos.Movie.Create(context.Background(), movie); err != nil {
		t.Fatalf("Movie.Create: %v", err)
	}
	return movie
}

// NewUser 创建测试用户，密码为 secret123
func NewUser(t testing.TB, repos *repository.Repositories, email string) *model.User {
	t.Helper()

	username := fmt.Sprintf("user%d", seq.Add(1))
	user, err := repos.User.Create(context.Background(), email, username, "secret123")
	if err != nil {
		t.Fatalf("User.Create: %v", err)
	}
	return user
}

// NewGenre 创建类型
func NewGenre(t testing.TB, repos *repository.Repositories, name, slug string) *model.Genre {
	t.Helper()

	genre := &model.Genre{Name: name, Slug: slug}
	if err := repos.Catalog.CreateGenre(context.Background(), genre); err != nil {
		t.Fatalf("CreateGenre: %v", err)
	}
	return genre
}

// NewCategory 创建分类
func NewCategory(t testing.TB, repos *repository.Repositories, name, slug string) *model.Category {
	t.Helper()

	category := &model.Category{Name: name, Slug: slug}
	if err := repos.Catalog.CreateCategory(context.Background(), category); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return category
}

// NewActor 创建演员
func NewActor(t testing.TB, repos *repository.Repositories, name string) *model.Actor {
	t.Helper()

	actor := &model.Actor{Name: name}
	if err := repos.Catalog.CreateActor(context.Background(), actor); err != nil {
		t.Fatalf("CreateActor: %v", err)
	}
	return actor
}

// Rate 以 origin 的身份给影片打分
func Rate(t testing.TB, repos *repository.Repositories, movieID uint, origin string, star int) {
	t.Helper()

	if err := repos.Rating.Upsert(context.Background(), movieID, origin, star); err != nil {
		t.Fatalf("Rating.Upsert: %v", err)
	}
}
