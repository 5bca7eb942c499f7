package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 本地持久化模型 ====================
// 只存客户端自身的状态 (主题偏好、最近一次库存快照)，
// 不落任何后端业务数据，后端始终是唯一事实来源

// Preference 键值偏好，目前只有 theme 一个键
type Preference struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"size:255" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Preference) TableName() string {
	return "preferences"
}

// 偏好键
const (
	PrefTheme = "theme"
)

// 主题取值
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// InventorySnapshot 最近一次成功拉取的库存原文
// 单行表 (ID 恒为 1)，每次成功拉取整体覆盖，仅用于启动时先画出上次数据
type InventorySnapshot struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	Payload   datatypes.JSON `json:"payload"`
	FetchedAt time.Time      `json:"fetched_at"`
}

func (InventorySnapshot) TableName() string {
	return "inventory_snapshots"
}
