package cmd

import (
	"testing"

	"inv_hub_v1/internal/config"
	"inv_hub_v1/internal/model"
	"inv_hub_v1/internal/repository"
)

// ==================== 主题判定链 ====================

func TestResolveDark(t *testing.T) {
	db, err := repository.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	prefs := repository.NewPreferenceRepo(db)
	app := &App{Cfg: &config.Config{}, Prefs: prefs}

	// 环境强制值优先于一切
	app.Cfg.Theme = model.ThemeDark
	if !resolveDark(app) {
		t.Error("resolveDark() with forced dark = false, want true")
	}
	app.Cfg.Theme = model.ThemeLight
	if resolveDark(app) {
		t.Error("resolveDark() with forced light = true, want false")
	}

	// 无强制值时读本地偏好
	app.Cfg.Theme = ""
	if err := prefs.SetTheme(model.ThemeDark); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}
	if !resolveDark(app) {
		t.Error("resolveDark() with stored dark = false, want true")
	}
	if err := prefs.SetTheme(model.ThemeLight); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}
	if resolveDark(app) {
		t.Error("resolveDark() with stored light = true, want false")
	}
}
