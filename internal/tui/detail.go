package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"inv_hub_v1/internal/dispatcher"
	"inv_hub_v1/internal/model"
	"inv_hub_v1/internal/service"
)

// ==================== 商品详情屏 ====================

// 字段编辑器的下标 (inputs 切片序)
const (
	fieldTitle = iota
	fieldDescription
	fieldUPC
	fieldQuantity
	fieldMarketValue
	fieldCount
)

// 焦点区：字段区之后是类目行，再之后是图库
const (
	focusCategory = fieldCount
	focusGallery  = fieldCount + 1
)

// DetailModel 单个商品的草稿编辑器
// 打开时创建独立的图库状态与草稿服务实例，关闭即弃
type DetailModel struct {
	deps Deps

	productID string
	loading   bool

	product      *model.Product
	categories   []model.Category
	categoryWarn string

	gallery *service.GalleryState
	draft   *service.DraftService

	inputs [fieldCount]textinput.Model
	labels [fieldCount]string
	catIdx int // -1 表示未选类目
	focus  int

	imgCursor     int
	pendingDelete string // 待确认删除的图片 id
	uploadMode    bool
	uploadInput   textinput.Model

	status string
	width  int
	height int
}

// NewDetailModel 创建详情屏 (数据未到前处于加载态)
func NewDetailModel(deps Deps, productID string) *DetailModel {
	m := &DetailModel{
		deps:      deps,
		productID: productID,
		loading:   true,
		catIdx:    -1,
	}

	m.labels = [fieldCount]string{"Title", "Description", "UPC", "Quantity", "Market Value"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 512
		ti.Width = 60
		m.inputs[i] = ti
	}
	m.inputs[fieldQuantity].Placeholder = "0"
	m.inputs[fieldMarketValue].Placeholder = "e.g., 29.99"

	up := textinput.New()
	up.Placeholder = "Path to image file, press Enter"
	up.CharLimit = 512
	up.Width = 60
	m.uploadInput = up

	return m
}

func (m *DetailModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// EditingText 焦点是否在文本输入上
func (m *DetailModel) EditingText() bool {
	return m.uploadMode || (m.focus < fieldCount)
}

// Populate 详情数据到达，建立草稿状态
func (m *DetailModel) Populate(result service.DetailResult) {
	m.loading = false
	m.product = result.Product
	m.categories = result.Categories
	m.categoryWarn = result.CategoryWarn

	p := result.Product
	m.gallery = service.NewGalleryState(p.Images)
	m.draft = service.NewDraftService(m.deps.Transport, m.deps.Cfg.ProductPath)

	title := p.OptimizedTitle
	if title == "" {
		title = p.BaseTitle
	}
	m.inputs[fieldTitle].SetValue(title)
	m.inputs[fieldDescription].SetValue(p.Description)
	m.inputs[fieldUPC].SetValue(p.UPC)
	m.inputs[fieldQuantity].SetValue(fmt.Sprintf("%d", p.Quantity))
	if p.MarketValue != nil {
		m.inputs[fieldMarketValue].SetValue(fmt.Sprintf("%.2f", *p.MarketValue))
	}

	m.catIdx = -1
	for i, c := range m.categories {
		if c.ID == p.CategoryID {
			m.catIdx = i
			break
		}
	}

	m.focus = fieldTitle
	m.inputs[fieldTitle].Focus()
}

// submitDone 提交结束：失败停在原地展示原因，草稿原样保留
func (m *DetailModel) submitDone(msg SubmitDoneMsg) {
	if msg.Err != nil {
		m.status = "Save rejected: " + msg.Err.Error()
		return
	}
	if msg.Outcome != nil && !msg.Outcome.Success {
		m.status = "Failed to save: " + msg.Outcome.Message
	}
}

func (m *DetailModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ImageUploadedMsg:
		if msg.Failure != nil {
			m.status = fmt.Sprintf("Error uploading %s: %s", msg.FileName, msg.Failure.Error())
		} else {
			m.status = "Image upload complete."
		}
		return nil

	case ImageDeletedMsg:
		if msg.Failure != nil {
			m.status = fmt.Sprintf("Error deleting image %s.", msg.ImageID)
		} else {
			m.status = fmt.Sprintf("Image %s deleted.", msg.ImageID)
			m.clampImageCursor()
		}
		return nil

	case EnrichDoneMsg:
		if msg.Failure != nil {
			m.status = "Error initiating AI processing: " + msg.Failure.Error()
		} else {
			m.status = msg.Message + " Status updates on next refresh."
		}
		return nil

	case CropStagedMsg:
		if msg.Err != nil {
			m.status = "Error cropping image: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("Crop staged for %s (sent on save).", msg.ImageID)
		}
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *DetailModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.loading {
		if msg.String() == "esc" {
			return navigateCmd(m.deps, "#inventory")
		}
		return nil
	}

	key := msg.String()

	// 删除确认提示优先吃掉按键
	if m.pendingDelete != "" {
		switch key {
		case "y", "Y":
			imageID := m.pendingDelete
			m.pendingDelete = ""
			return dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
				Kind:       dispatcher.ActionDeleteImage,
				ControlKey: "delete:" + imageID,
				ProductID:  m.productID,
				ImageID:    imageID,
				Confirmed:  true,
				Payload:    DeleteImagePayload{Gallery: m.gallery},
			})
		default:
			m.pendingDelete = ""
			m.status = "Deletion cancelled."
		}
		return nil
	}

	// 上传路径输入模式
	if m.uploadMode {
		switch key {
		case "esc":
			m.uploadMode = false
			m.uploadInput.Blur()
			return nil
		case "enter":
			path := strings.TrimSpace(m.uploadInput.Value())
			m.uploadMode = false
			m.uploadInput.Blur()
			m.uploadInput.SetValue("")
			if path == "" {
				m.status = "Please select an image file first."
				return nil
			}
			m.status = "Uploading image..."
			return dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
				Kind:       dispatcher.ActionUploadImage,
				ControlKey: "upload",
				ProductID:  m.productID,
				Payload:    UploadPayload{Path: path, Gallery: m.gallery},
			})
		}
		var cmd tea.Cmd
		m.uploadInput, cmd = m.uploadInput.Update(msg)
		return cmd
	}

	switch key {
	case "esc":
		// 取消：不提交任何东西直接回列表
		return navigateCmd(m.deps, "#inventory")
	case "ctrl+s":
		return m.saveCmd()
	case "up", "shift+tab":
		m.moveFocus(-1)
		return nil
	case "down", "tab":
		m.moveFocus(1)
		return nil
	}

	// 字段区：把剩余按键交给聚焦的输入框
	if m.focus < fieldCount {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return cmd
	}

	// 类目行
	if m.focus == focusCategory {
		switch key {
		case "left", "h":
			if m.catIdx > -1 {
				m.catIdx--
			}
		case "right", "l":
			if m.catIdx < len(m.categories)-1 {
				m.catIdx++
			}
		case "s":
			return m.saveCmd()
		case "a":
			return m.enrichCmd()
		}
		return nil
	}

	// 图库区
	images := m.gallery.Images()
	switch key {
	case "left", "h":
		if m.imgCursor > 0 {
			m.imgCursor--
		}
	case "right", "l":
		if m.imgCursor < len(images)-1 {
			m.imgCursor++
		}
	case "shift+left", "H":
		return m.moveImage(-1)
	case "shift+right", "L":
		return m.moveImage(1)
	case "d":
		if img := m.currentImage(); img != nil {
			// 破坏性动作：先本地确认，派发时带显式 Confirmed
			m.pendingDelete = img.ID
		}
	case "c":
		if img := m.currentImage(); img != nil {
			m.status = fmt.Sprintf("Staging crop for %s...", img.ID)
			return dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
				Kind:       dispatcher.ActionStageCrop,
				ControlKey: "crop:" + img.ID,
				ProductID:  m.productID,
				ImageID:    img.ID,
				Payload:    CropPayload{URL: img.URL, Gallery: m.gallery},
			})
		}
	case "u":
		m.uploadMode = true
		m.uploadInput.Focus()
	case "s":
		return m.saveCmd()
	case "a":
		return m.enrichCmd()
	}
	return nil
}

// enrichCmd 从详情页触发增强 (在途期间控件由派发器禁用)
func (m *DetailModel) enrichCmd() tea.Cmd {
	if m.product == nil || m.product.UPC == "" {
		m.status = "Error: Cannot trigger AI, missing product data."
		return nil
	}
	m.status = "Requesting AI enrichment..."
	return dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
		Kind:       dispatcher.ActionEnrich,
		ControlKey: "enrich:" + m.productID,
		ProductID:  m.productID,
		Payload:    EnrichPayload{UPC: m.product.UPC},
	})
}

// moveImage 把当前选中的图在权威顺序里移动一格
// 新序列整体交给 Reorder 校验，被拒时顺序保持不变
func (m *DetailModel) moveImage(delta int) tea.Cmd {
	ids := m.gallery.Order()
	target := m.imgCursor + delta
	if m.imgCursor < 0 || m.imgCursor >= len(ids) || target < 0 || target >= len(ids) {
		return nil
	}

	ids[m.imgCursor], ids[target] = ids[target], ids[m.imgCursor]
	if err := m.gallery.Reorder(ids); err != nil {
		m.status = "Reorder rejected: " + err.Error()
		return nil
	}
	m.imgCursor = target
	return nil
}

// saveCmd 组装草稿载荷并派发提交
func (m *DetailModel) saveCmd() tea.Cmd {
	if m.draft == nil {
		return nil
	}
	if m.draft.Submitting() || m.deps.Dispatcher.Busy("save") {
		m.status = "Already saving..."
		return nil
	}

	if strings.TrimSpace(m.inputs[fieldTitle].Value()) == "" {
		m.status = "Error: Title is required."
		return nil
	}

	categoryID := ""
	if m.catIdx >= 0 && m.catIdx < len(m.categories) {
		categoryID = m.categories[m.catIdx].ID
	}

	fields := service.DraftFields{
		Title:       m.inputs[fieldTitle].Value(),
		Description: m.inputs[fieldDescription].Value(),
		UPC:         m.inputs[fieldUPC].Value(),
		Quantity:    m.inputs[fieldQuantity].Value(),
		MarketValue: m.inputs[fieldMarketValue].Value(),
		CategoryID:  categoryID,
	}

	m.status = fmt.Sprintf("Saving product %s...", m.productID)
	return dispatchCmd(m.deps.Dispatcher, dispatcher.Action{
		Kind:       dispatcher.ActionSubmitDraft,
		ControlKey: "save",
		ProductID:  m.productID,
		Payload: SubmitPayload{
			Fields:  fields,
			Gallery: m.gallery,
			Draft:   m.draft,
		},
	})
}

func (m *DetailModel) moveFocus(delta int) {
	if m.focus < fieldCount {
		m.inputs[m.focus].Blur()
	}
	m.focus += delta
	if m.focus < 0 {
		m.focus = focusGallery
	}
	if m.focus > focusGallery {
		m.focus = 0
	}
	if m.focus < fieldCount {
		m.inputs[m.focus].Focus()
	}
}

func (m *DetailModel) currentImage() *model.ProductImage {
	images := m.gallery.Images()
	if m.imgCursor < 0 || m.imgCursor >= len(images) {
		return nil
	}
	return &images[m.imgCursor]
}

func (m *DetailModel) clampImageCursor() {
	if n := len(m.gallery.Order()); m.imgCursor >= n && n > 0 {
		m.imgCursor = n - 1
	} else if n == 0 {
		m.imgCursor = 0
	}
}

// ==================== 渲染 ====================

func (m *DetailModel) View(theme *Theme) string {
	var b strings.Builder

	if m.loading {
		b.WriteString(theme.Title.Render("Loading Product Details..."))
		b.WriteString("\n" + theme.Help.Render("esc back"))
		return b.String()
	}

	heading := m.product.BaseTitle
	if heading == "" {
		heading = m.productID
	}
	b.WriteString(theme.Title.Render("Edit Product: " + heading))
	b.WriteString("\n")

	// --- 图库 (置顶，与原型一致) ---
	b.WriteString(theme.Header.Render("Images") + "\n")
	images := m.gallery.Images()
	if len(images) == 0 {
		b.WriteString(theme.Disabled.Render("No images found for this product.") + "\n")
	} else {
		var cells []string
		for i, img := range images {
			label := fmt.Sprintf("[%d] %s", i, img.ID)
			if m.gallery.HasStaged(img.ID) {
				label += " *"
			}
			switch {
			case i == m.imgCursor && m.focus == focusGallery:
				cells = append(cells, theme.Selected.Render(label))
			case m.gallery.HasStaged(img.ID):
				cells = append(cells, theme.Staged.Render(label))
			default:
				cells = append(cells, theme.Row.Render(label))
			}
		}
		b.WriteString(strings.Join(cells, "  ") + "\n")
	}
	if n := m.gallery.StagedCount(); n > 0 {
		b.WriteString(theme.Staged.Render(fmt.Sprintf("%d staged crop edit(s) will be sent on save", n)) + "\n")
	}

	if m.pendingDelete != "" {
		b.WriteString(theme.Warning.Render(fmt.Sprintf("Delete image %s? This cannot be undone. (y/n)", m.pendingDelete)) + "\n")
	}
	if m.uploadMode {
		b.WriteString(theme.Label.Render("Upload: ") + m.uploadInput.View() + "\n")
	}
	b.WriteString("\n")

	// --- 标量字段 ---
	for i := 0; i < fieldCount; i++ {
		label := m.labels[i] + ":"
		if i == m.focus {
			b.WriteString(theme.Label.Render(fmt.Sprintf("%-14s", label)))
		} else {
			b.WriteString(theme.Row.Render(fmt.Sprintf("%-14s", label)))
		}
		b.WriteString(m.inputs[i].View() + "\n")
	}

	// --- 类目 ---
	catLabel := fmt.Sprintf("%-14s", "Category:")
	catValue := "-- Select Category --"
	if m.catIdx >= 0 && m.catIdx < len(m.categories) {
		catValue = m.categories[m.catIdx].Name
	}
	if m.focus == focusCategory {
		b.WriteString(theme.Label.Render(catLabel) + theme.Selected.Render(" "+catValue+" ") + theme.Help.Render(" (left/right)"))
	} else {
		b.WriteString(theme.Row.Render(catLabel + catValue))
	}
	b.WriteString("\n")
	if m.categoryWarn != "" {
		b.WriteString(theme.Warning.Render(m.categoryWarn) + "\n")
	}

	// --- 属性表 (只读展示) ---
	if len(m.product.Attributes) > 0 {
		b.WriteString("\n" + theme.Header.Render("Attributes") + "\n")
		keys := make([]string, 0, len(m.product.Attributes))
		for k := range m.product.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(theme.Row.Render(fmt.Sprintf("  %s: %s", k, m.product.Attributes[k])) + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + theme.Status.Render(m.status))
	}

	saving := ""
	if m.draft != nil && m.draft.Submitting() {
		saving = " (saving...)"
	}
	enrich := "a enrich"
	if m.deps.Dispatcher.Busy("enrich:" + m.productID) {
		enrich = "a enrich (queued...)"
	}
	b.WriteString("\n" + theme.Help.Render(
		"tab/↑↓ focus • images: ←→ select, shift+←→ move, c crop, d delete, u upload • "+enrich+" • s/ctrl+s save"+saving+" • esc cancel"))
	return b.String()
}
