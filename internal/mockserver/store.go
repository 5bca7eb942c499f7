package mockserver

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"inv_hub_v1/internal/model"
)

// ==================== 内存存储 ====================

// Store 模拟后端的内存数据，单互斥锁保护
// 仅限本地开发：客户端对它与对真实 n8n 工作流一视同仁
type Store struct {
	mu         sync.Mutex
	products   map[string]*model.Product
	order      []string // 插入顺序，列表按它输出
	categories []model.Category
}

func NewStore() *Store {
	s := &Store{
		products: make(map[string]*model.Product),
		categories: []model.Category{
			{ID: "cat1", Name: "Electronics"},
			{ID: "cat2", Name: "Clothing"},
			{ID: "cat3", Name: "Home Goods"},
		},
	}
	s.seed()
	return s
}

// seed 预置几条可直接编辑的样例数据
func (s *Store) seed() {
	mv := 29.99
	samples := []*model.Product{
		{
			ID:               "p-1001",
			UPC:              "123456789012",
			Quantity:         5,
			BaseTitle:        "Sample Product 1001",
			OptimizedTitle:   "Awesome Sample Product 1001 - Great Deal!",
			Description:      "This is a detailed description for the sample product.",
			MarketValue:      &mv,
			CategoryID:       "cat1",
			EnrichmentStatus: model.EnrichmentCompleted,
			EbayListingID:    "110123456789",
			EbayListingURL:   "https://ebay.example/110123456789",
			Attributes:       map[string]string{"Condition": "New", "Brand": "MockBrand"},
			Images: []model.ProductImage{
				{ID: "img-a", URL: "http://localhost/images/img-a.jpg", Order: 0},
				{ID: "img-b", URL: "http://localhost/images/img-b.jpg", Order: 1},
			},
		},
		{
			ID:               "p-1002",
			UPC:              "036000291452",
			Quantity:         2,
			BaseTitle:        "Sample Product 1002",
			Description:      "Second sample, not yet enriched.",
			EnrichmentStatus: model.EnrichmentNotStarted,
		},
	}
	for _, p := range samples {
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
	}
}

// List 按插入顺序导出全部商品
func (s *Store) List() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.products[id])
	}
	return out
}

// Get 取单个商品副本
func (s *Store) Get(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return model.Product{}, false
	}
	return *p, true
}

// Categories 类目列表
func (s *Store) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.categories...)
}

// Scan 登记一个扫到的 UPC
// 已存在则置回 pending，不存在则建一条待增强的新行
func (s *Store) Scan(upc string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.UPC == upc {
			p.EnrichmentStatus = model.EnrichmentPending
			return p.ID
		}
	}

	id := "p-" + uuid.NewString()[:8]
	s.products[id] = &model.Product{
		ID:               id,
		UPC:              upc,
		Quantity:         1,
		BaseTitle:        "Scanned item " + upc,
		EnrichmentStatus: model.EnrichmentPending,
	}
	s.order = append(s.order, id)
	return id
}

// MarkEnrichPending 按 UPC 触发增强
func (s *Store) MarkEnrichPending(upc string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.UPC == upc {
			p.EnrichmentStatus = model.EnrichmentPending
			return true
		}
	}
	return false
}

// Update 应用一次草稿提交
// imageOrder 是完整 id 列表；croppedCount 只记日志 (模拟端不存像素)
func (s *Store) Update(id string, fields map[string]string, imageOrder []string, croppedCount int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return false
	}

	if v, ok := fields["title"]; ok && v != "" {
		p.OptimizedTitle = v
	}
	if v, ok := fields["description"]; ok {
		p.Description = v
	}
	if v, ok := fields["upc"]; ok {
		p.UPC = v
	}
	if v, ok := fields["quantity"]; ok && v != "" {
		var q int
		if _, err := fmt.Sscanf(v, "%d", &q); err == nil && q >= 0 {
			p.Quantity = q
		}
	}
	if v, ok := fields["market_value"]; ok && v != "" {
		var mv float64
		if _, err := fmt.Sscanf(v, "%f", &mv); err == nil && mv >= 0 {
			p.MarketValue = &mv
		}
	}
	if v, ok := fields["category_id"]; ok {
		p.CategoryID = v
	}

	if imageOrder != nil {
		byID := make(map[string]model.ProductImage, len(p.Images))
		for _, img := range p.Images {
			byID[img.ID] = img
		}
		next := make([]model.ProductImage, 0, len(imageOrder))
		for pos, imgID := range imageOrder {
			if img, ok := byID[imgID]; ok {
				img.Order = pos
				next = append(next, img)
			}
		}
		p.Images = next
	}

	if croppedCount > 0 {
		log.Printf("[mock] 商品 %s 收到 %d 个裁剪替换部分", id, croppedCount)
	}
	return true
}

// AddImage 上传一张图片，分配 uuid id，顺序排在末尾
func (s *Store) AddImage(productID string) (model.ProductImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return model.ProductImage{}, false
	}

	id := "img-" + uuid.NewString()[:8]
	img := model.ProductImage{
		ID:    id,
		URL:   fmt.Sprintf("http://localhost/images/%s.jpg", id),
		Order: len(p.Images),
	}
	p.Images = append(p.Images, img)
	return img, true
}

// RemoveImage 删除一张图片
func (s *Store) RemoveImage(productID, imageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return false
	}
	for i, img := range p.Images {
		if img.ID == imageID {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			return true
		}
	}
	return false
}

// AdvanceEnrichment 推进所有在途的增强状态一步
// pending -> processing -> completed；completed 时补一份优化标题
func (s *Store) AdvanceEnrichment() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	advanced := 0
	for _, p := range s.products {
		switch p.EnrichmentStatus {
		case model.EnrichmentPending:
			p.EnrichmentStatus = model.EnrichmentProcessing
			advanced++
		case model.EnrichmentProcessing:
			p.EnrichmentStatus = model.EnrichmentCompleted
			if p.OptimizedTitle == "" {
				p.OptimizedTitle = "Enriched: " + p.BaseTitle
			}
			advanced++
		}
	}
	return advanced
}
