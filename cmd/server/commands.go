package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
	"github.com/user/moviesphere/internal/service"
)

func newMigrateCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "同步数据库表结构",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, closeDB, err := app.openRepositories()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repository.AutoMigrate(repos.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "表结构已同步")
			return nil
		},
	}
}

func newRecomputeCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "重算全部影片的平均分",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, closeDB, err := app.openRepositories()
			if err != nil {
				return err
			}
			defer closeDB()

			ratings := service.NewRatingService(repos, app.logger)
			n, err := ratings.RecomputeAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已重算 %d 部影片\n", n)
			return nil
		},
	}
}

func newPopularCommand(app *appContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "按实时平均分列出热门影片",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, closeDB, err := app.openRepositories()
			if err != nil {
				return err
			}
			defer closeDB()

			ratings := service.NewRatingService(repos, app.logger)
			page, err := ratings.ListPopular(cmd.Context(), 1, limit)
			if err != nil {
				return err
			}
			if len(page.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "暂无评分数据")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPopular(page.Items))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "显示条数")
	return cmd
}

// renderPopular 热门影片表格
func renderPopular(items []*model.RankedMovie) string {
	rows := make([][]string, 0, len(items))
	for i, m := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatUint(uint64(m.ID), 10),
			m.Title,
			strconv.FormatFloat(m.LiveAverage, 'f', 2, 64),
			strconv.FormatInt(m.RatingCount, 10),
			strconv.FormatFloat(m.AverageRating, 'f', 2, 64),
		})
	}
	return renderTable(
		[]string{"#", "ID", "Title", "Live", "Votes", "Cached"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignRight, alignRight},
	)
}
