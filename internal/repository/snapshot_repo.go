package repository

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"inv_hub_v1/internal/model"
)

// ==================== 快照仓库 ====================

// SnapshotRepo 最近一次库存拉取的本地快照
// 只为"启动先画上次数据"服务，后端永远是事实来源；
// 单行表，每次成功拉取整体覆盖
type SnapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save 覆盖写入快照
func (r *SnapshotRepo) Save(products []model.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return err
	}
	snap := model.InventorySnapshot{
		ID:        1,
		Payload:   datatypes.JSON(payload),
		FetchedAt: time.Now(),
	}
	return r.db.Save(&snap).Error
}

// Load 读取快照；没有快照时返回空列表与零时间
func (r *SnapshotRepo) Load() ([]model.Product, time.Time, error) {
	var snap model.InventorySnapshot
	err := r.db.First(&snap, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var products []model.Product
	if err := json.Unmarshal(snap.Payload, &products); err != nil {
		return nil, time.Time{}, err
	}
	return products, snap.FetchedAt, nil
}
