package cmd

import (
	"context"

	"setting-center/app/config"
	"setting-center/app/database"
	"setting-center/app/logger"
	"setting-center/app/repository"
	"setting-center/app/seed"
	"setting-center/app/service"

	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "写入内置设置和初始设置文件中尚不存在的设置",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		log := logger.New(cfg.Log)
		defer log.Close()

		db, err := database.Init(cfg, log)
		if err != nil {
			log.Fatalf("数据库初始化失败: %v", err)
		}
		defer database.Close()

		entries := seed.Builtins()
		file := seedFile
		if file == "" {
			file = cfg.Seed.File
		}
		if file != "" {
			extra, err := seed.LoadFile(file)
			if err != nil {
				log.Fatalf("%v", err)
			}
			entries = append(entries, extra...)
		}

		svc := service.NewSettingService(repository.NewSettingRepository(db), log, service.Options{})
		n, err := svc.Seed(context.Background(), nil, entries)
		if err != nil {
			log.Errorf("部分初始设置写入失败: %v", err)
		}
		log.Infof("初始设置处理完成，新增 %d 项", n)
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "初始设置 YAML 文件，默认使用 seed.file")
	rootCmd.AddCommand(seedCmd)
}
