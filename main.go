// @title Learning Path 后端 API
// @version 1.0
// @description 学习路径、进度汇总与教师覆盖的后端服务。
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"learning_path_backend/internal/app"
	"learning_path_backend/internal/config"
	"learning_path_backend/pkg/logger"
	"log"
)

type options struct {
	configDir   string
	migrate     bool
	migrateOnly bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configDir, "config", "configs", "配置目录，热更新也监听这个目录")
	flag.BoolVar(&o.migrate, "migrate", false, "release 模式下也执行自动迁移")
	flag.BoolVar(&o.migrateOnly, "migrate-only", false, "迁移后退出，不启动 HTTP 服务和定时任务")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		log.Fatalf("load config from %s: %v", opts.configDir, err)
	}
	cfg.Dir = opts.configDir
	cfg.ForceMigrate = opts.migrate || opts.migrateOnly
	cfg.MigrateOnly = opts.migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if opts.migrateOnly {
		application.Close()
		logger.Log.Info("Migration finished")
		return
	}
	application.Run()
}
