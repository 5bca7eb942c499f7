package tui

import (
	"inv_hub_v1/internal/dispatcher"
	"inv_hub_v1/internal/model"
	"inv_hub_v1/internal/router"
	"inv_hub_v1/internal/service"
	"inv_hub_v1/internal/webhook"
)

// ==================== 消息定义 ====================
// 动作的结果统一以消息回流：动作处理函数在自己的 goroutine 里
// 完成网络调用后 Send 这些消息，Update 单线程落地

// StatusMsg 传输层的咨询性状态行 (仅展示)
type StatusMsg string

// ViewChangedMsg 导航完成，带新视图状态与代号
type ViewChangedMsg struct {
	State router.ViewState
	Gen   uint64
}

// InventoryLoadedMsg 列表数据到达
// Seq 是列表屏发起本次加载时分配的序号，处理函数原样带回；
// 只有最新序号的结果会落地，慢请求迟到直接丢弃
type InventoryLoadedMsg struct {
	Seq      uint64
	Products []model.Product
	Failure  *webhook.Failure
	// Mode 区分普通列表与搜索结果的空态文案
	Mode string // "inventory" | "search"
	// FromCache 为真表示这是启动时的本地快照，不覆盖状态行
	FromCache bool
}

// ScanDoneMsg UPC 扫描回执
type ScanDoneMsg struct {
	UPC     string
	Message string
	Failure *webhook.Failure
}

// EnrichDoneMsg 增强触发回执
type EnrichDoneMsg struct {
	UPC     string
	Message string
	Failure *webhook.Failure
}

// DetailLoadedMsg 详情页数据到达 (结果内含代号与降级信息)
type DetailLoadedMsg struct {
	Result service.DetailResult
}

// SubmitDoneMsg 草稿提交结局
type SubmitDoneMsg struct {
	ProductID string
	Outcome   *service.SubmitOutcome
	Err       error
}

// ImageUploadedMsg 一张图片上传完成 (成功时图库已插入)
type ImageUploadedMsg struct {
	FileName string
	Image    *model.ProductImage
	Failure  *webhook.Failure
}

// ImageDeletedMsg 一张图片删除完成 (成功时图库已移除)
type ImageDeletedMsg struct {
	ImageID string
	Failure *webhook.Failure
}

// CropStagedMsg 裁剪暂存完成
type CropStagedMsg struct {
	ImageID string
	Err     error
}

// ThemeChangedMsg 主题切换完成 (偏好已落盘)
type ThemeChangedMsg struct {
	Dark bool
}

// ActionRejectedMsg 动作未被执行 (在途、缺确认、未注册)
type ActionRejectedMsg struct {
	Action dispatcher.Action
	Err    error
}
