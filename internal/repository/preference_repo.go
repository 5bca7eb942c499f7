package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inv_hub_v1/internal/model"
)

// ==================== 偏好仓库 ====================

// PreferenceRepo 键值偏好存取 (localStorage 的本地等价物)
type PreferenceRepo struct {
	db *gorm.DB
}

func NewPreferenceRepo(db *gorm.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

// GetTheme 读取主题偏好
// 从未设置过时返回空串，由调用方走系统偏好回退
func (r *PreferenceRepo) GetTheme() (string, error) {
	var pref model.Preference
	err := r.db.Where("key = ?", model.PrefTheme).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return pref.Value, nil
}

// SetTheme 写入主题偏好 (切换时立即落盘)
func (r *PreferenceRepo) SetTheme(theme string) error {
	pref := model.Preference{
		Key:       model.PrefTheme,
		Value:     theme,
		UpdatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
}
