package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inv_hub_v1/internal/model"
)

// ==================== 本地库 ====================

// OpenDB 打开 (必要时创建) 客户端本地 sqlite 库
// 只放客户端自身状态：主题偏好、库存快照。测试请传 ":memory:"
func OpenDB(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}

	if err := db.AutoMigrate(&model.Preference{}, &model.InventorySnapshot{}); err != nil {
		return nil, fmt.Errorf("migrate local db: %w", err)
	}
	return db, nil
}
