package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inv_hub_v1/internal/model"
	"inv_hub_v1/internal/tui"
)

// ==================== 交互界面 ====================

// resolveDark 主题判定优先级：环境变量 > 本地偏好 > 终端背景色
func resolveDark(app *App) bool {
	switch app.Cfg.Theme {
	case model.ThemeDark:
		return true
	case model.ThemeLight:
		return false
	}

	if app.Prefs != nil {
		if theme, err := app.Prefs.GetTheme(); err == nil {
			switch theme {
			case model.ThemeDark:
				return true
			case model.ThemeLight:
				return false
			}
		}
	}

	return lipgloss.HasDarkBackground()
}

func runTUI() error {
	app := buildApp()

	m := tui.NewModel(tui.Deps{
		Cfg:        app.Cfg,
		Dispatcher: app.Dispatcher,
		Navigator:  app.Navigator,
		Transport:  app.Client,
		Inventory:  app.Inventory,
	}, resolveDark(app))

	p := tea.NewProgram(m, tea.WithAltScreen())

	// 处理函数与传输层状态行都通过 p.Send 回流到界面
	registerHandlers(app, p.Send)
	app.Client.SetStatusFunc(func(s string) {
		p.Send(tui.StatusMsg(s))
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
