package mockserver

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// ==================== 模拟 webhook 后端 ====================

// Server 本地开发用的 webhook 后端模拟器
// 端点形状与真实工作流引擎对齐；增强流程用定时任务模拟异步推进
type Server struct {
	store *Store
	cron  *cron.Cron
}

func New() *Server {
	return &Server{
		store: NewStore(),
		cron:  cron.New(),
	}
}

// Store 暴露给测试直接检查状态
func (s *Server) Store() *Store {
	return s.store
}

// Engine 组装 gin 路由
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	wh := r.Group("/webhook")
	{
		// 列表走 data 包装形状，锻炼客户端的双形状解码
		wh.GET("/inventory", s.handleInventory)
		wh.POST("/scan-upc", s.handleScan)
		wh.POST("/enrich-product", s.handleEnrich)
		wh.POST("/search-name", s.handleSearch)
		wh.GET("/categories", s.handleCategories)

		wh.GET("/product/:id", s.handleGetProduct)
		wh.PUT("/product/:id", s.handleUpdateProduct)

		wh.POST("/product-image/:id", s.handleUploadImage)
		wh.DELETE("/product-image/:id/:imageId", s.handleDeleteImage)
	}

	return r
}

// StartEnrichmentCycle 启动异步增强模拟
// 每 10 秒把 pending/processing 各推进一步
func (s *Server) StartEnrichmentCycle() {
	_, err := s.cron.AddFunc("@every 10s", func() {
		if n := s.store.AdvanceEnrichment(); n > 0 {
			log.Printf("[mock] 增强状态推进 %d 条", n)
		}
	})
	if err != nil {
		log.Printf("[mock] 注册增强任务失败: %v", err)
		return
	}
	s.cron.Start()
}

// Run 启动 HTTP 服务 (阻塞)
func (s *Server) Run(addr string) error {
	s.StartEnrichmentCycle()
	log.Printf("[mock] webhook 后端启动于 %s", addr)
	return s.Engine().Run(addr)
}

// ==================== 处理函数 ====================

func (s *Server) handleInventory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.List()})
}

func (s *Server) handleScan(c *gin.Context) {
	var req struct {
		UPC string `json:"upc" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "upc is required"})
		return
	}

	id := s.store.Scan(req.UPC)
	c.JSON(http.StatusOK, gin.H{"message": "Processing started for " + id})
}

func (s *Server) handleEnrich(c *gin.Context) {
	var req struct {
		UPC *string `json:"upc"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UPC == nil || *req.UPC == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "upc is required"})
		return
	}

	if !s.store.MarkEnrichPending(*req.UPC) {
		c.JSON(http.StatusNotFound, gin.H{"message": "no product with that upc"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enrichment queued"})
}

func (s *Server) handleSearch(c *gin.Context) {
	var req struct {
		SearchTerm string `json:"searchTerm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "bad request"})
		return
	}

	term := strings.ToLower(req.SearchTerm)
	var hits []any
	for _, p := range s.store.List() {
		if strings.Contains(strings.ToLower(p.BaseTitle), term) ||
			strings.Contains(strings.ToLower(p.OptimizedTitle), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			hits = append(hits, p)
		}
	}
	if hits == nil {
		hits = []any{}
	}
	// 搜索走顶层数组形状
	c.JSON(http.StatusOK, hits)
}

func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Categories())
}

func (s *Server) handleGetProduct(c *gin.Context) {
	p, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	id := c.Param("id")

	fields := make(map[string]string)
	var imageOrder []string
	croppedCount := 0

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "bad multipart body"})
			return
		}
		for k, vs := range form.Value {
			if len(vs) > 0 {
				fields[k] = vs[0]
			}
		}
		for name := range form.File {
			if strings.HasPrefix(name, "croppedImage_") {
				croppedCount++
			}
		}
	} else {
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "bad json body"})
			return
		}
	}

	if raw, ok := fields["imageOrder"]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &imageOrder); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "imageOrder is not a valid id list"})
			return
		}
	}

	if !s.store.Update(id, fields, imageOrder, croppedCount) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleUploadImage(c *gin.Context) {
	id := c.Param("id")

	if _, err := c.FormFile("imageFile"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "imageFile part is required"})
		return
	}

	img, ok := s.store.AddImage(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	c.JSON(http.StatusOK, img)
}

func (s *Server) handleDeleteImage(c *gin.Context) {
	if !s.store.RemoveImage(c.Param("id"), c.Param("imageId")) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "image not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
