package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"inv_hub_v1/internal/dispatcher"
	"inv_hub_v1/internal/model"
)

// ==================== 库存列表屏 ====================

// InventoryModel 库存表 + 扫描/搜索输入
// tab 在输入框和表格之间切换焦点
type InventoryModel struct {
	deps Deps

	upcInput    textinput.Model
	searchInput textinput.Model
	searchMode  bool

	products []model.Product
	cursor   int

	// 扫描通道与结果通道各自独立的状态行 (对应原型的分区状态条)
	scanStatus   string
	resultStatus string

	// 列表加载序号：每次发起刷新/搜索 +1，结果带回发起时的序号，
	// 对不上 (更新的加载已在途或已落地) 就丢弃
	loadSeq uint64
	// 已有真实数据落地后，迟到的本地快照不再覆盖
	liveLoaded bool

	focusInput bool
	width      int
	height     int
}

// NewInventoryModel 创建列表屏
func NewInventoryModel(deps Deps) *InventoryModel {
	upc := textinput.New()
	upc.Placeholder = "Scan or enter a UPC, press Enter"
	upc.CharLimit = 64
	upc.Width = 40
	upc.Focus()

	search := textinput.New()
	search.Placeholder = "Search by name or description"
	search.CharLimit = 128
	search.Width = 40

	return &InventoryModel{
		deps:        deps,
		upcInput:    upc,
		searchInput: search,
		focusInput:  true,
	}
}

func (m *InventoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// InputFocused 焦点是否在文本输入上
func (m *InventoryModel) InputFocused() bool {
	return m.focusInput
}

// loadSnapshotCmd 启动时先画本地快照，真数据到了再覆盖
func (m *InventoryModel) loadSnapshotCmd() tea.Cmd {
	inv := m.deps.Inventory
	return func() tea.Msg {
		products := inv.LastSnapshot()
		if len(products) == 0 {
			return nil
		}
		return InventoryLoadedMsg{Products: products, Mode: "inventory", FromCache: true}
	}
}

// nextLoad 分配下一个列表加载序号
func (m *InventoryModel) nextLoad() uint64 {
	m.loadSeq++
	return m.loadSeq
}

// refreshCmd 发起一次整表刷新 (根模型与本屏共用)
func (m *InventoryModel) refreshCmd() tea.Cmd {
	return dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
		Kind:       dispatcher.ActionRefresh,
		ControlKey: "refresh",
		Payload:    RefreshPayload{Seq: m.nextLoad()},
	})
}

func (m *InventoryModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case InventoryLoadedMsg:
		// 快照只在真数据到达前占位；真数据只收最新序号的那份
		if msg.FromCache {
			if m.liveLoaded {
				return nil
			}
		} else if msg.Seq != m.loadSeq {
			return nil
		}
		if msg.Failure != nil {
			// 出错清表，错误文案占据结果行；迟到的快照也不再覆盖它
			m.liveLoaded = true
			m.products = nil
			m.resultStatus = "Error: " + msg.Failure.Error()
			return nil
		}
		m.products = msg.Products
		if !msg.FromCache {
			m.liveLoaded = true
		}
		if m.cursor >= len(m.products) {
			m.cursor = 0
		}
		switch {
		case msg.FromCache:
			m.resultStatus = "Showing last known inventory, refreshing..."
		case msg.Mode == "search":
			m.resultStatus = fmt.Sprintf("Search complete. Found %d item(s).", len(m.products))
		default:
			m.resultStatus = "Inventory loaded successfully."
		}
		return nil

	case ScanDoneMsg:
		if msg.Failure != nil {
			m.scanStatus = fmt.Sprintf("Failed to process UPC %s: %s", msg.UPC, msg.Failure.Error())
		} else {
			m.scanStatus = fmt.Sprintf("UPC %s sent successfully! (%s) Refreshing list...", msg.UPC, msg.Message)
		}
		return nil

	case EnrichDoneMsg:
		if msg.Failure != nil {
			m.resultStatus = fmt.Sprintf("Error initiating AI processing for %s.", msg.UPC)
		} else {
			m.resultStatus = fmt.Sprintf("AI processing initiated for %s. Refresh to see status.", msg.UPC)
		}
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *InventoryModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	// 焦点切换永远可用
	if key == "tab" {
		m.focusInput = !m.focusInput
		if m.focusInput {
			m.activeInput().Focus()
		} else {
			m.activeInput().Blur()
		}
		return nil
	}

	if m.focusInput {
		switch key {
		case "enter":
			return m.submitInput()
		case "esc":
			if m.searchMode {
				// 退出搜索模式回到普通列表
				m.searchMode = false
				m.searchInput.Blur()
				m.searchInput.SetValue("")
				m.upcInput.Focus()
				return m.refreshCmd()
			}
			return nil
		}
		var cmd tea.Cmd
		if m.searchMode {
			m.searchInput, cmd = m.searchInput.Update(msg)
		} else {
			m.upcInput, cmd = m.upcInput.Update(msg)
		}
		return cmd
	}

	// 表格焦点下的按键
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "r":
		return m.refreshCmd()
	case "/":
		m.searchMode = true
		m.focusInput = true
		m.upcInput.Blur()
		m.searchInput.Focus()
	case "e":
		if p := m.selected(); p != nil {
			if p.UPC == "" {
				m.resultStatus = "Error: Cannot trigger AI, missing product data."
				return nil
			}
			return dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
				Kind:       dispatcher.ActionEnrich,
				ControlKey: "enrich:" + p.RowKey,
				ProductID:  p.ID,
				Payload:    EnrichPayload{UPC: p.UPC},
			})
		}
	case "enter", "v":
		if p := m.selected(); p != nil {
			if p.ID == "" {
				// 合成临时键的行没有稳定身份，无法进入详情
				m.resultStatus = "This row has no reliable id; refresh to resolve it."
				return nil
			}
			return dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
				Kind:       dispatcher.ActionOpenDetail,
				ControlKey: "open:" + p.ID,
				ProductID:  p.ID,
			})
		}
	}
	return nil
}

// submitInput 输入框回车：搜索模式发搜索，否则发扫描
func (m *InventoryModel) submitInput() tea.Cmd {
	if m.searchMode {
		term := strings.TrimSpace(m.searchInput.Value())
		if term == "" {
			m.resultStatus = "Please enter a name or description to search."
			return nil
		}
		return dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
			Kind:       dispatcher.ActionSearch,
			ControlKey: "search",
			Payload:    SearchPayload{Term: term, Seq: m.nextLoad()},
		})
	}

	upc := strings.TrimSpace(m.upcInput.Value())
	if upc == "" {
		m.scanStatus = "Please scan or enter a UPC."
		return nil
	}
	m.upcInput.SetValue("")
	m.scanStatus = fmt.Sprintf("Sending UPC: %s...", upc)
	return dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
		Kind:       dispatcher.ActionScan,
		ControlKey: "scan",
		Payload:    ScanPayload{UPC: upc, Seq: m.nextLoad()},
	})
}

func (m *InventoryModel) selected() *model.Product {
	if m.cursor < 0 || m.cursor >= len(m.products) {
		return nil
	}
	return &m.products[m.cursor]
}

func (m *InventoryModel) activeInput() *textinput.Model {
	if m.searchMode {
		return &m.searchInput
	}
	return &m.upcInput
}

// ==================== 渲染 ====================

func (m *InventoryModel) View(theme *Theme) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Inventory"))
	b.WriteString("\n")

	// 输入区
	label := "Scan UPC"
	input := m.upcInput.View()
	if m.searchMode {
		label = "Search"
		input = m.searchInput.View()
	}
	b.WriteString(theme.Label.Render(label+": ") + theme.Input.Render(input))
	b.WriteString("\n")
	if m.scanStatus != "" {
		b.WriteString(theme.Status.Render(m.scanStatus) + "\n")
	}
	b.WriteString("\n")

	// 表格
	header := fmt.Sprintf("%-16s %5s  %-40s %10s  %-12s %-14s", "UPC/ID", "Qty", "Title", "Value", "Status", "Listing")
	b.WriteString(theme.Header.Render(header) + "\n")

	if len(m.products) == 0 {
		empty := "No inventory items found."
		if m.searchMode {
			empty = "No matching products found."
		}
		b.WriteString(theme.Disabled.Render(empty) + "\n")
	}

	for i := range m.products {
		p := &m.products[i]

		value := "N/A"
		if p.MarketValue != nil {
			value = fmt.Sprintf("$%.2f", *p.MarketValue)
		}
		status := p.EnrichmentStatus
		if status == "" {
			status = "N/A"
		}
		if busyKey := "enrich:" + p.RowKey; m.deps.Dispatcher.Busy(busyKey) {
			status = "AI queued..."
		}
		listing := "Not Listed"
		if p.EbayListingURL != "" {
			listing = p.EbayListingID
			if listing == "" {
				listing = "View Listing"
			}
		}

		row := fmt.Sprintf("%-16s %5d  %-40s %10s  %-12s %-14s",
			truncate(p.DisplayKey(), 16), p.Quantity, truncate(p.DisplayTitle(), 40), value, status, listing)

		if i == m.cursor && !m.focusInput {
			b.WriteString(theme.Selected.Render(row))
		} else {
			b.WriteString(theme.Row.Render(row))
		}
		b.WriteString("\n")
	}

	if m.resultStatus != "" {
		b.WriteString("\n" + theme.Status.Render(m.resultStatus))
	}

	b.WriteString("\n" + theme.Help.Render("tab focus • enter/v view • e enrich • r refresh • / search • t theme • q quit"))
	return b.String()
}

// truncate 按字符数截断，多字节字符不被切半
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
