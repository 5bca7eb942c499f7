package dispatcher

import (
	"context"
	"errors"
	"sync"
)

// ==================== 动作定义 ====================

// Kind 用户动作种类
// 标识符在代码里显式枚举，不走字符串 dataset 传递
type Kind int

const (
	ActionScan Kind = iota
	ActionRefresh
	ActionSearch
	ActionEnrich
	ActionOpenDetail
	ActionSubmitDraft
	ActionUploadImage
	ActionDeleteImage
	ActionStageCrop
	ActionToggleTheme
)

// Action 一次离散的用户输入事件，载荷全部类型化
type Action struct {
	Kind Kind

	// ControlKey 触发控件的标识；非空时该控件在动作在途期间被禁用
	ControlKey string

	ProductID string
	ImageID   string

	// Confirmed 破坏性动作 (删图) 必须带显式确认
	Confirmed bool

	// Payload 动作附加数据 (UPC 文本、文件路径等)
	Payload any
}

// Handler 动作处理函数
type Handler func(ctx context.Context, act Action) error

// ==================== 派发器 ====================

var (
	// ErrBusy 同一控件已有动作在途；重复触发被拒绝，不排队
	ErrBusy = errors.New("action already in flight for this control")
	// ErrConfirmRequired 破坏性动作缺少用户确认
	ErrConfirmRequired = errors.New("destructive action requires explicit confirmation")
	// ErrUnknownAction 没有注册处理函数的动作种类
	ErrUnknownAction = errors.New("no handler registered for action kind")
)

// Dispatcher 把用户事件映射到各服务调用
// 在途登记表保证：控件触发的异步动作完成 (无论成败) 前，
// 同一控件的再次触发直接返回 ErrBusy
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind]Handler

	inflight sync.Map // ControlKey -> struct{}
}

func New() *Dispatcher {
	return &Dispatcher{handlers: make(map[Kind]Handler)}
}

// Register 注册动作处理函数 (同种类后注册覆盖先注册)
func (d *Dispatcher) Register(kind Kind, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = h
}

// Dispatch 派发一个动作
// 成功与失败路径都会释放控件；错误原样返回给界面层转成状态文本
func (d *Dispatcher) Dispatch(ctx context.Context, act Action) error {
	d.mu.RLock()
	h, ok := d.handlers[act.Kind]
	d.mu.RUnlock()
	if !ok {
		return ErrUnknownAction
	}

	if destructive(act.Kind) && !act.Confirmed {
		return ErrConfirmRequired
	}

	if act.ControlKey != "" {
		if _, loaded := d.inflight.LoadOrStore(act.ControlKey, struct{}{}); loaded {
			return ErrBusy
		}
		defer d.inflight.Delete(act.ControlKey)
	}

	return h(ctx, act)
}

// Busy 某控件是否有动作在途 (渲染禁用态用)
func (d *Dispatcher) Busy(controlKey string) bool {
	_, ok := d.inflight.Load(controlKey)
	return ok
}

// destructive 需要显式确认的动作种类
func destructive(kind Kind) bool {
	return kind == ActionDeleteImage
}
