package database

import (
	"fmt"
	"learning_path_backend/internal/config"
	"learning_path_backend/internal/model"
	"learning_path_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models 需要自动迁移的全部模型
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Group{},
		&model.GroupMember{},
		&model.LearningPath{},
		&model.Module{},
		&model.Theme{},
		&model.Resource{},
		&model.Activity{},
		&model.ContentAssignment{},
		&model.Progress{},
		&model.ProgressTheme{},
		&model.ProgressModule{},
		&model.Notification{},
	}
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	case "mysql", "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// newGormLogger SQL 日志写入 zap，未找到记录属于正常分支不记录
func newGormLogger(l *zap.Logger) gormlogger.Interface {
	return gormlogger.New(zap.NewStdLog(l.Named("gorm")), gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: newGormLogger(logger.Log),
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established", zap.String("driver", cfg.Driver))

	if !migrate {
		return db, nil
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, err
	}

	logger.Log.Info("Database migration completed")
	return db, nil
}
