package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"inv_hub_v1/internal/config"
	"inv_hub_v1/internal/dispatcher"
	"inv_hub_v1/internal/router"
	"inv_hub_v1/internal/service"
)

// ==================== 根模型 ====================

// Screen 当前展示的屏幕，与 router.ViewState 一一对应
type Screen int

const (
	InventoryScreen Screen = iota
	DetailScreen
)

// Deps 界面层依赖容器 (cmd 层构造并注入)
type Deps struct {
	Cfg        *config.Config
	Dispatcher *dispatcher.Dispatcher
	Navigator  *router.Navigator
	Transport  service.Transport
	Inventory  *service.InventoryService
}

// Model 根模型：持有两个屏幕子模型，按导航状态切换
type Model struct {
	deps  Deps
	theme Theme

	screen    Screen
	inventory *InventoryModel
	detail    *DetailModel

	status   string
	quitting bool

	width  int
	height int
}

// NewModel 创建根模型
func NewModel(deps Deps, dark bool) Model {
	theme := NewTheme(dark)
	return Model{
		deps:      deps,
		theme:     theme,
		screen:    InventoryScreen,
		inventory: NewInventoryModel(deps),
	}
}

// Init 启动即拉一次库存 (先用本地快照占位)
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.inventory.loadSnapshotCmd(),
		m.inventory.refreshCmd(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.inventory.SetSize(msg.Width, msg.Height)
		if m.detail != nil {
			m.detail.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "q":
			if !m.typing() {
				m.quitting = true
				return m, tea.Quit
			}
		case "t":
			if !m.typing() {
				return m, dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
					Kind:       dispatcher.ActionToggleTheme,
					ControlKey: "theme",
					Payload:    ThemePayload{Dark: !m.theme.Dark},
				})
			}
		}

	case StatusMsg:
		m.status = string(msg)
		return m, nil

	case ThemeChangedMsg:
		m.theme = NewTheme(msg.Dark)
		return m, nil

	case ViewChangedMsg:
		if msg.State.Kind == router.ViewDetail {
			m.screen = DetailScreen
			m.detail = NewDetailModel(m.deps, msg.State.ProductID)
			m.detail.SetSize(m.width, m.height)
		} else {
			m.screen = InventoryScreen
			m.detail = nil
		}
		return m, nil

	case DetailLoadedMsg:
		// 过期的详情结果直接丢弃 (在途请求不取消，只拒绝落地)
		if !m.deps.Navigator.IsCurrent(msg.Result.Generation) {
			return m, nil
		}
		// 商品本体拉取失败：报告错误并退回列表，绝不停在坏详情页上
		if msg.Result.Failure != nil {
			m.status = "Error loading product details: " + msg.Result.Failure.Error()
			return m, tea.Batch(
				navigateCmd(m.deps, "#inventory"),
				m.inventory.refreshCmd(),
			)
		}
		if m.detail != nil {
			m.detail.Populate(msg.Result)
		}
		return m, nil

	case SubmitDoneMsg:
		if m.detail != nil {
			m.detail.submitDone(msg)
		}
		if msg.Err == nil && msg.Outcome != nil && msg.Outcome.Success {
			// 保存成功：离开编辑态并刷新列表
			m.status = msg.Outcome.Message
			return m, tea.Batch(
				navigateCmd(m.deps, "#inventory"),
				m.inventory.refreshCmd(),
			)
		}
		return m, nil

	case ActionRejectedMsg:
		switch {
		case errors.Is(msg.Err, dispatcher.ErrBusy):
			m.status = "Still working on the previous action..."
		case errors.Is(msg.Err, dispatcher.ErrConfirmRequired):
			// 确认流程由详情页自己画提示，这里不覆盖状态行
		default:
			m.status = "Action failed: " + msg.Err.Error()
		}
		return m, nil
	}

	// 其余消息与按键交给当前屏幕
	switch m.screen {
	case DetailScreen:
		if m.detail != nil {
			return m, m.detail.Update(msg)
		}
	default:
		return m, m.inventory.Update(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.screen {
	case DetailScreen:
		if m.detail != nil {
			body = m.detail.View(&m.theme)
		}
	default:
		body = m.inventory.View(&m.theme)
	}

	status := ""
	if m.status != "" {
		status = "\n" + m.theme.Status.Render(m.status)
	}
	return body + status
}

// typing 当前焦点是否在文本输入上 (决定 q/t 等全局键是否生效)
func (m Model) typing() bool {
	if m.screen == DetailScreen {
		return m.detail != nil && m.detail.EditingText()
	}
	return m.inventory.InputFocused()
}

// navigateCmd 导航并广播视图变化
func navigateCmd(deps Deps, token string) tea.Cmd {
	return func() tea.Msg {
		state, gen := deps.Navigator.Go(token)
		return ViewChangedMsg{State: state, Gen: gen}
	}
}
