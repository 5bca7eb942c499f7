package router

import (
	"strings"
	"sync"
)

// ==================== 视图路由 ====================

// ViewKind 视图种类：列表或详情，二者必居其一
type ViewKind int

const (
	ViewList ViewKind = iota
	ViewDetail
)

func (k ViewKind) String() string {
	if k == ViewDetail {
		return "detail"
	}
	return "list"
}

// ViewState 由位置令牌确定性推出的视图状态，不单独持久化
type ViewState struct {
	Kind      ViewKind
	ProductID string // 仅 ViewDetail 有效
}

const detailPrefix = "#product/"

// Resolve 纯函数：位置令牌 -> 视图状态
// 匹配 #product/<id> (id 非空) 进详情；
// 空串、"#"、"#inventory" 以及一切无法识别的令牌都落回列表
func Resolve(token string) ViewState {
	if strings.HasPrefix(token, detailPrefix) {
		if id := token[len(detailPrefix):]; id != "" {
			return ViewState{Kind: ViewDetail, ProductID: id}
		}
	}
	return ViewState{Kind: ViewList}
}

// ==================== 导航器 ====================

// Navigator 当前视图状态 + 单调递增的代号
// 每次导航代号 +1；异步结果带着发起时的代号回来，
// 代号对不上就丢弃 —— 在途请求不取消，只拒绝落地
type Navigator struct {
	mu      sync.Mutex
	current ViewState
	gen     uint64
}

func NewNavigator() *Navigator {
	return &Navigator{current: ViewState{Kind: ViewList}}
}

// Go 按令牌导航，返回新视图状态与本次代号
func (n *Navigator) Go(token string) (ViewState, uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.current = Resolve(token)
	n.gen++
	return n.current, n.gen
}

// Current 当前视图状态与代号
func (n *Navigator) Current() (ViewState, uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.gen
}

// IsCurrent 某代号是否仍然有效
func (n *Navigator) IsCurrent(gen uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gen == gen
}
