package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"inv_hub_v1/internal/dispatcher"
	"inv_hub_v1/internal/service"
)

// ==================== 动作载荷 ====================
// 动作携带的全部数据都走类型化载荷，
// 处理函数 (cmd 层注册) 不回查界面状态

// RefreshPayload 整表刷新
// Seq 由列表屏分配，结果消息原样带回用于丢弃过期加载
type RefreshPayload struct {
	Seq uint64
}

// ScanPayload 扫描一个 UPC
// Seq 供扫描成功后的跟随刷新使用
type ScanPayload struct {
	UPC string
	Seq uint64
}

// SearchPayload 按名称搜索
type SearchPayload struct {
	Term string
	Seq  uint64
}

// EnrichPayload 触发增强
type EnrichPayload struct {
	UPC string
}

// SubmitPayload 提交草稿
// 图库与草稿服务实例都在载荷里，处理函数不持有视图状态
type SubmitPayload struct {
	Fields  service.DraftFields
	Gallery *service.GalleryState
	Draft   *service.DraftService
}

// UploadPayload 上传一张本地图片
type UploadPayload struct {
	Path    string
	Gallery *service.GalleryState
}

// DeleteImagePayload 删除一张图片
type DeleteImagePayload struct {
	Gallery *service.GalleryState
}

// CropPayload 对一张图发起裁剪暂存
type CropPayload struct {
	URL     string
	Gallery *service.GalleryState
}

// ThemePayload 主题切换
type ThemePayload struct {
	Dark bool
}

// ==================== 派发辅助 ====================

// dispatchCmd 把一次派发包成 tea.Cmd
// Dispatch 是同步的：整个处理函数 (含网络调用) 都在这个
// goroutine 里跑完，在途守卫因此覆盖完整的异步窗口；
// 结果由处理函数通过 Send 回流，这里只把拒绝转成消息
func dispatchCmd(d *dispatcher.Dispatcher, act dispatcher.Action) tea.Cmd {
	return func() tea.Msg {
		if err := d.Dispatch(context.Background(), act); err != nil {
			return ActionRejectedMsg{Action: act, Err: err}
		}
		return nil
	}
}
