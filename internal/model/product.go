package model

import "strings"

// ==================== 增强状态枚举 ====================

// 后端异步增强流程的状态值，客户端只读不推进
const (
	EnrichmentNotStarted = "not_started"
	EnrichmentPending    = "pending"
	EnrichmentProcessing = "processing"
	EnrichmentCompleted  = "completed"
	EnrichmentFailed     = "failed"
)

// ==================== 商品 ====================

// Product 库存商品
// 全部字段来自后端 webhook 响应，客户端从不新建，只通过草稿提交修改
type Product struct {
	ID  string `json:"id"`
	UPC string `json:"upc"`

	Quantity int `json:"quantity"`

	// --- 标题双轨：原始标题 / AI 优化标题 ---
	BaseTitle      string `json:"base_title"`
	OptimizedTitle string `json:"optimized_title"`

	Description string `json:"description"`

	// 市场估价，后端可能不给 (区分 0 和缺失)
	MarketValue *float64 `json:"market_value"`

	CategoryID string `json:"category_id"`

	EnrichmentStatus string `json:"enrichment_status"`

	// --- 外部平台挂牌引用 ---
	EbayListingID  string `json:"ebay_listing_id"`
	EbayListingURL string `json:"ebay_listing_url"`

	// 自由属性表 (类目相关，键不固定)
	Attributes map[string]string `json:"attributes"`

	// 有序图片列表
	Images []ProductImage `json:"images"`

	// RowKey 列表渲染用的稳定键：id -> upc -> 合成临时键
	// 由 InventoryService 补齐，不参与序列化
	RowKey string `json:"-"`
}

// DisplayKey 表格里展示的标识列
// 后端偶尔会回 "null" 字符串或空白，按无效处理
func (p *Product) DisplayKey() string {
	if v := sanitizeKey(p.UPC); v != "" {
		return v
	}
	if v := sanitizeKey(p.ID); v != "" {
		return v
	}
	return "N/A"
}

// DisplayTitle 标题列的回退链：优化标题 -> 原始标题 -> 截断描述 -> N/A
func (p *Product) DisplayTitle() string {
	if p.OptimizedTitle != "" {
		return p.OptimizedTitle
	}
	if p.BaseTitle != "" {
		return p.BaseTitle
	}
	if p.Description != "" {
		// 按字符数截断，多字节字符不被切半
		if r := []rune(p.Description); len(r) > 50 {
			return string(r[:50]) + "..."
		}
		return p.Description
	}
	return "N/A"
}

func sanitizeKey(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "null") {
		return ""
	}
	return v
}

// ==================== 图片引用 ====================

// ProductImage 商品图片引用
// id 由后端分配；order 决定初始排序，落定后在商品内唯一
type ProductImage struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// ==================== 类目 ====================

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
