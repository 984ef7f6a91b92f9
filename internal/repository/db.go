package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/user/moviesphere/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("初始化 ORM 失败: %w", err)
	}
	return db, nil
}

// AutoMigrate 同步表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Genre{},
		&model.Actor{},
		&model.Movie{},
		&model.Season{},
		&model.Episode{},
		&model.MovieShot{},
		&model.Rating{},
		&model.MovieInteraction{},
		&model.Review{},
	)
}

// IsUniqueViolation 判断是否为唯一约束冲突
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// sqlite 驱动不做错误转换，只能按消息判断
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Repositories 仓库集合
type Repositories struct {
	DB          *gorm.DB
	User        *UserRepository
	Movie       *MovieRepository
	Catalog     *CatalogRepository
	Rating      *RatingRepository
	Interaction *InteractionRepository
	Review      *ReviewRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:          db,
		User:        NewUserRepository(db),
		Movie:       NewMovieRepository(db),
		Catalog:     NewCatalogRepository(db),
		Rating:      NewRatingRepository(db),
		Interaction: NewInteractionRepository(db),
		Review:      NewReviewRepository(db),
	}
}
