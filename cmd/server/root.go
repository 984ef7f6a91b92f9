package main

import (
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/user/moviesphere/internal/config"
	"github.com/user/moviesphere/internal/repository"
)

// appContext 子命令共享的配置、日志与数据库
type appContext struct {
	configPath string
	cfg        *config.Config
	logger     log.Logger
}

func newRootCommand() *cobra.Command {
	app := &appContext{}

	rootCmd := &cobra.Command{
		Use:           "moviesphere",
		Short:         "MovieSphere 影片目录服务",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	defaultPath := os.Getenv("MOVIESPHERE_CONFIG")
	rootCmd.PersistentFlags().StringVarP(&app.configPath, "config", "c", defaultPath, "TOML 配置文件路径")

	rootCmd.AddCommand(newServeCommand(app))
	rootCmd.AddCommand(newMigrateCommand(app))
	rootCmd.AddCommand(newRecomputeCommand(app))
	rootCmd.AddCommand(newPopularCommand(app))

	return rootCmd
}

// load 加载 .env 与配置文件，并创建日志
func (a *appContext) load() error {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "未找到 .env 文件，使用系统环境变量")
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	a.cfg = cfg

	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service", cfg.SiteName,
	)
	a.logger = log.NewFilter(logger, log.FilterLevel(log.ParseLevel(cfg.LogLevel)))
	return nil
}

// openRepositories 连接数据库，返回的 close 用于释放连接池
func (a *appContext) openRepositories() (*repository.Repositories, func(), error) {
	db, err := repository.InitDB(a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return repository.NewRepositories(db), func() { _ = sqlDB.Close() }, nil
}
