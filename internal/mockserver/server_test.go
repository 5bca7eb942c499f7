package mockserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"inv_hub_v1/internal/model"
)

// ==================== 测试辅助 ====================

func setupServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := New()
	return srv, srv.Engine()
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("编码请求体失败: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// ==================== 列表与搜索 ====================

func TestInventoryEndpoint(t *testing.T) {
	_, engine := setupServer(t)

	w := doJSON(t, engine, http.MethodGet, "/webhook/inventory", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// 列表走 data 包装形状
	var resp struct {
		Data []model.Product `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("len(data) = %d, want 2 seeded products", len(resp.Data))
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, engine := setupServer(t)

	w := doJSON(t, engine, http.MethodPost, "/webhook/search-name", gin.H{"searchTerm": "sample product 1002"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// 搜索走顶层数组形状
	var hits []model.Product
	if err := json.Unmarshal(w.Body.Bytes(), &hits); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "p-1002" {
		t.Errorf("hits = %v, want single p-1002", hits)
	}

	// 无命中回空数组而非 null
	w = doJSON(t, engine, http.MethodPost, "/webhook/search-name", gin.H{"searchTerm": "nonexistent"})
	if body := bytes.TrimSpace(w.Body.Bytes()); string(body) != "[]" {
		t.Errorf("no-hit body = %s, want []", body)
	}
}

// ==================== 扫描与增强 ====================

func TestScanEndpoint(t *testing.T) {
	srv, engine := setupServer(t)

	// 缺 upc 给 400
	w := doJSON(t, engine, http.MethodPost, "/webhook/scan-upc", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	// 新 UPC 建新品
	w = doJSON(t, engine, http.MethodPost, "/webhook/scan-upc", gin.H{"upc": "999999999999"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := len(srv.Store().List()); got != 3 {
		t.Errorf("products = %d, want 3 after new-upc scan", got)
	}

	// 已有 UPC 不建新品，转入 pending
	w = doJSON(t, engine, http.MethodPost, "/webhook/scan-upc", gin.H{"upc": "036000291452"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := len(srv.Store().List()); got != 3 {
		t.Errorf("products = %d, want 3 after existing-upc scan", got)
	}
	p, _ := srv.Store().Get("p-1002")
	if p.EnrichmentStatus != model.EnrichmentPending {
		t.Errorf("status = %s, want pending", p.EnrichmentStatus)
	}
}

func TestEnrichEndpoint(t *testing.T) {
	srv, engine := setupServer(t)

	w := doJSON(t, engine, http.MethodPost, "/webhook/enrich-product", gin.H{"upc": "036000291452"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// pending -> processing -> completed，完成时补优化标题
	srv.Store().AdvanceEnrichment()
	srv.Store().AdvanceEnrichment()

	p, _ := srv.Store().Get("p-1002")
	if p.EnrichmentStatus != model.EnrichmentCompleted {
		t.Errorf("status = %s, want completed", p.EnrichmentStatus)
	}
	if p.OptimizedTitle != "Enriched: Sample Product 1002" {
		t.Errorf("OptimizedTitle = %q, want Enriched: Sample Product 1002", p.OptimizedTitle)
	}

	// 未知 UPC 给 404
	w = doJSON(t, engine, http.MethodPost, "/webhook/enrich-product", gin.H{"upc": "000000000000"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// ==================== 商品详情与更新 ====================

func TestProductEndpoints(t *testing.T) {
	srv, engine := setupServer(t)

	w := doJSON(t, engine, http.MethodGet, "/webhook/product/p-1001", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var p model.Product
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if p.ID != "p-1001" || len(p.Images) != 2 {
		t.Errorf("product = %+v, want p-1001 with 2 images", p)
	}

	w = doJSON(t, engine, http.MethodGet, "/webhook/product/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	// multipart 更新：标量字段 + imageOrder 反转
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", "Renamed 1001")
	_ = mw.WriteField("quantity", "9")
	_ = mw.WriteField("market_value", "42.50")
	_ = mw.WriteField("imageOrder", `["img-b","img-a"]`)
	fw, _ := mw.CreateFormFile("croppedImage_img-a", "cropped_img-a.jpg")
	_, _ = fw.Write([]byte("jpeg-bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/webhook/product/p-1001", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	p, _ = srv.Store().Get("p-1001")
	if p.OptimizedTitle != "Renamed 1001" {
		t.Errorf("title = %q, want Renamed 1001", p.OptimizedTitle)
	}
	if p.Quantity != 9 {
		t.Errorf("quantity = %d, want 9", p.Quantity)
	}
	if p.MarketValue == nil || *p.MarketValue != 42.50 {
		t.Errorf("market_value = %v, want 42.50", p.MarketValue)
	}
	if len(p.Images) != 2 || p.Images[0].ID != "img-b" || p.Images[0].Order != 0 {
		t.Errorf("images = %v, want [img-b img-a] with renumbered order", p.Images)
	}
}

// ==================== 图片端点 ====================

func TestImageEndpoints(t *testing.T) {
	srv, engine := setupServer(t)

	// 缺 imageFile 部分给 400
	w := doJSON(t, engine, http.MethodPost, "/webhook/product-image/p-1001", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("imageFile", "photo.jpg")
	_, _ = fw.Write([]byte("jpeg-bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/webhook/product-image/p-1001", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var img model.ProductImage
	if err := json.Unmarshal(rec.Body.Bytes(), &img); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if img.ID == "" || img.Order != 2 {
		t.Errorf("img = %+v, want assigned id with order 2", img)
	}

	// 删除已有图
	w = doJSON(t, engine, http.MethodDelete, "/webhook/product-image/p-1001/img-a", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", w.Code)
	}
	p, _ := srv.Store().Get("p-1001")
	for _, im := range p.Images {
		if im.ID == "img-a" {
			t.Error("img-a still present after delete")
		}
	}

	// 重复删除给 404
	w = doJSON(t, engine, http.MethodDelete, "/webhook/product-image/p-1001/img-a", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
