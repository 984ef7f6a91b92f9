package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"
	"github.com/user/moviesphere/internal/handler"
	"github.com/user/moviesphere/internal/repository"
	"github.com/user/moviesphere/internal/router"
	"github.com/user/moviesphere/internal/service"
)

func newServeCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), app)
		},
	}
}

func serve(ctx context.Context, app *appContext) error {
	cfg := app.cfg
	helper := log.NewHelper(log.With(app.logger, "module", "main"))

	repos, closeDB, err := app.openRepositories()
	if err != nil {
		return err
	}
	defer closeDB()

	if cfg.AutoMigrate {
		if err := repository.AutoMigrate(repos.DB); err != nil {
			return err
		}
		helper.Info("数据库表结构已同步")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	svcs := service.NewServices(repos, service.Options{
		MoviesPerPage:     cfg.MoviesPerPage,
		RecomputeInterval: cfg.RecomputeInterval,
	}, app.logger)
	if svcs.Refresh.Enabled() {
		svcs.Refresh.Start(ctx)
		helper.Infof("平均分定时重算已启用，间隔 %s", cfg.RecomputeInterval)
	}

	h := handler.NewHandler(svcs, cfg, app.logger)
	r := router.New(h, app.logger)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，主流程等待退出信号
	errCh := make(chan error, 1)
	go func() {
		helper.Infof("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	helper.Info("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	helper.Info("服务器已退出")
	return nil
}
