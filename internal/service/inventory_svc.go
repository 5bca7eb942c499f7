package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"inv_hub_v1/internal/config"
	"inv_hub_v1/internal/model"
	"inv_hub_v1/internal/repository"
	"inv_hub_v1/internal/webhook"
)

// ==================== 库存服务 ====================

// InventoryService 面向 webhook 后端的读取/触发操作
// 不做任何自动重试；增强是后端异步流程，这里只发触发
type InventoryService struct {
	transport Transport
	cfg       *config.Config

	// 快照仓库可为 nil (本地库打不开时客户端照常工作)
	snapshots *repository.SnapshotRepo
}

// NewInventoryService 创建库存服务
func NewInventoryService(transport Transport, cfg *config.Config, snapshots *repository.SnapshotRepo) *InventoryService {
	return &InventoryService{
		transport: transport,
		cfg:       cfg,
		snapshots: snapshots,
	}
}

// FetchInventory 拉取库存列表
// 兼容两种响应形状：顶层数组，或 {"data": [...]}；
// 其他形状一律按解码失败处理，返回空列表 + Failure
func (s *InventoryService) FetchInventory(ctx context.Context) ([]model.Product, *webhook.Failure) {
	res, fail := s.transport.Perform(ctx, s.cfg.InventoryPath, http.MethodGet, nil)
	if fail != nil {
		return nil, fail
	}

	products, fail := decodeProductList(res)
	if fail != nil {
		return nil, fail
	}

	ensureRowKeys(products)

	if s.snapshots != nil {
		if err := s.snapshots.Save(products); err != nil {
			log.Printf("[inventory] 快照写入失败 (忽略): %v", err)
		}
	}
	return products, nil
}

// SearchByName 按名称/描述搜索，结果形状与库存列表一致
func (s *InventoryService) SearchByName(ctx context.Context, term string) ([]model.Product, *webhook.Failure) {
	res, fail := s.transport.Perform(ctx, s.cfg.SearchPath, http.MethodPost, map[string]string{"searchTerm": term})
	if fail != nil {
		return nil, fail
	}

	products, fail := decodeProductList(res)
	if fail != nil {
		return nil, fail
	}
	ensureRowKeys(products)
	return products, nil
}

// LastSnapshot 上一次成功拉取的本地快照 (可能为空)
func (s *InventoryService) LastSnapshot() []model.Product {
	if s.snapshots == nil {
		return nil
	}
	products, _, err := s.snapshots.Load()
	if err != nil {
		return nil
	}
	ensureRowKeys(products)
	return products
}

// ScanUPC 上送一个扫到的 UPC，成功后由调用方刷新列表
func (s *InventoryService) ScanUPC(ctx context.Context, upc string) (string, *webhook.Failure) {
	res, fail := s.transport.Perform(ctx, s.cfg.ScanPath, http.MethodPost, map[string]string{"upc": upc})
	if fail != nil {
		return "", fail
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := res.Decode(&body); err != nil || body.Message == "" {
		return "Processing started", nil
	}
	return body.Message, nil
}

// TriggerEnrich 触发后端异步增强
// 只拿回执；真正的增强进度没有推送，列表状态要手动刷新
func (s *InventoryService) TriggerEnrich(ctx context.Context, upc string) (string, *webhook.Failure) {
	payload := map[string]any{"upc": nullable(upc)}
	res, fail := s.transport.Perform(ctx, s.cfg.EnrichPath, http.MethodPost, payload)
	if fail != nil {
		return "", fail
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := res.Decode(&body); err != nil || body.Message == "" {
		return "AI processing initiated", nil
	}
	return body.Message, nil
}

// ==================== 详情页加载 ====================

// DetailResult 详情页的加载结果
// Generation 是发起时的导航代号，消费方据此丢弃过期结果
type DetailResult struct {
	Generation uint64

	Product    *model.Product
	Categories []model.Category

	// 类目拉取失败时进入降级模式：照常渲染，带一条告警
	CategoryWarn string

	// 商品本体拉取失败；路由层据此回退到列表视图
	Failure *webhook.Failure
}

// LoadDetail 并发加载商品详情与类目列表
// 两个请求独立启动、独立落地：一个失败不取消另一个；
// 类目失败只降级，商品失败才算整体失败
func (s *InventoryService) LoadDetail(ctx context.Context, productID string, generation uint64) DetailResult {
	out := DetailResult{Generation: generation}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		res, fail := s.transport.Perform(ctx, s.cfg.ProductPath+"/"+productID, http.MethodGet, nil)
		if fail != nil {
			out.Failure = fail
			return
		}
		var p model.Product
		if err := res.Decode(&p); err != nil {
			out.Failure = &webhook.Failure{Kind: webhook.ErrKindDecode, Message: "invalid product payload", Cause: err}
			return
		}
		out.Product = &p
	}()

	go func() {
		defer wg.Done()
		res, fail := s.transport.Perform(ctx, s.cfg.CategoriesPath, http.MethodGet, nil)
		if fail != nil {
			out.CategoryWarn = "Could not load categories: " + fail.Error()
			return
		}
		cats, fail := decodeCategoryList(res)
		if fail != nil {
			out.CategoryWarn = "Could not load categories: " + fail.Error()
			return
		}
		out.Categories = cats
	}()

	wg.Wait()
	return out
}

// ==================== 图片操作 ====================

// UploadImage 为商品上传一张图片
// 成功时后端返回新的图片引用 {id, url, order}
func (s *InventoryService) UploadImage(ctx context.Context, productID, fileName string, data []byte) (*model.ProductImage, *webhook.Failure) {
	parts := []webhook.FilePart{{Name: "imageFile", FileName: fileName, Data: data}}
	res, fail := s.transport.PerformMultipart(ctx, s.cfg.ProductImagePath+"/"+productID, http.MethodPost, nil, parts)
	if fail != nil {
		return nil, fail
	}

	var img model.ProductImage
	if err := res.Decode(&img); err != nil || img.ID == "" {
		return nil, &webhook.Failure{Kind: webhook.ErrKindDecode, Message: "uploaded image data missing 'id'", Cause: err}
	}
	return &img, nil
}

// DeleteImage 删除商品的一张图片
func (s *InventoryService) DeleteImage(ctx context.Context, productID, imageID string) *webhook.Failure {
	_, fail := s.transport.Perform(ctx, s.cfg.ProductImagePath+"/"+productID+"/"+imageID, http.MethodDelete, nil)
	return fail
}

// ==================== 内部 ====================

// decodeProductList 顶层数组或 data 键下数组，其余形状算解码失败
func decodeProductList(res *webhook.Result) ([]model.Product, *webhook.Failure) {
	if len(res.Data) == 0 {
		return []model.Product{}, nil
	}

	var direct []model.Product
	if err := json.Unmarshal(res.Data, &direct); err == nil {
		return direct, nil
	}

	var wrapped struct {
		Data []model.Product `json:"data"`
	}
	if err := json.Unmarshal(res.Data, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	return nil, &webhook.Failure{Kind: webhook.ErrKindDecode, Message: "invalid data format received from server"}
}

func decodeCategoryList(res *webhook.Result) ([]model.Category, *webhook.Failure) {
	if len(res.Data) == 0 {
		return []model.Category{}, nil
	}

	var direct []model.Category
	if err := json.Unmarshal(res.Data, &direct); err == nil {
		return direct, nil
	}

	var wrapped struct {
		Data []model.Category `json:"data"`
	}
	if err := json.Unmarshal(res.Data, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	return nil, &webhook.Failure{Kind: webhook.ErrKindDecode, Message: "invalid category payload"}
}

// ensureRowKeys 为每行补齐稳定键：id -> upc -> 合成临时键
// 没有任何可靠标识的行仍然渲染 (记录一条告警)，但无法进入详情页；
// 临时键用 uuid 保证不因下标变化而碰撞
func ensureRowKeys(products []model.Product) {
	for i := range products {
		p := &products[i]
		switch {
		case p.ID != "":
			p.RowKey = p.ID
		case p.UPC != "":
			p.RowKey = p.UPC
		default:
			p.RowKey = "tmp-" + uuid.NewString()
			log.Printf("[inventory] 第 %d 行缺少可靠标识，使用临时键 %s", i, p.RowKey)
		}
	}
}

// nullable 空串按 JSON null 上送 (与后端 webhook 的约定)
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
