package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"inv_hub_v1/internal/config"
	"inv_hub_v1/internal/webhook"
)

func testConfig() *config.Config {
	return &config.Config{
		APIBaseURL:       "http://test",
		InventoryPath:    "/webhook/inventory",
		ScanPath:         "/webhook/scan-upc",
		EnrichPath:       "/webhook/enrich-product",
		SearchPath:       "/webhook/search-name",
		ProductPath:      "/webhook/product",
		ProductImagePath: "/webhook/product-image",
		CategoriesPath:   "/webhook/categories",
	}
}

func jsonResult(s string) *webhook.Result {
	return &webhook.Result{Data: json.RawMessage(s)}
}

// ==================== 列表解码 ====================

func TestFetchInventoryShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     int
		wantFail bool
	}{
		{"顶层数组", `[{"id":"p-1"},{"id":"p-2"}]`, 2, false},
		{"data 键包裹", `{"data":[{"id":"p-1"}]}`, 1, false},
		{"空数组", `[]`, 0, false},
		{"空体", ``, 0, false},
		{"对象但无 data 键", `{"items":[{"id":"p-1"}]}`, 0, true},
		{"标量", `42`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &mockTransport{
				performFn: func(ctx context.Context, path, method string, body any) (*webhook.Result, *webhook.Failure) {
					if path != "/webhook/inventory" || method != http.MethodGet {
						t.Errorf("request = %s %s, want GET /webhook/inventory", method, path)
					}
					return jsonResult(tt.body), nil
				},
			}

			svc := NewInventoryService(transport, testConfig(), nil)
			products, fail := svc.FetchInventory(context.Background())

			if tt.wantFail {
				if fail == nil || fail.Kind != webhook.ErrKindDecode {
					t.Fatalf("failure = %v, want decode_error", fail)
				}
				return
			}
			if fail != nil {
				t.Fatalf("FetchInventory() failure = %v", fail)
			}
			if len(products) != tt.want {
				t.Errorf("len(products) = %d, want %d", len(products), tt.want)
			}
		})
	}
}

// ==================== 行键合成 ====================

func TestFetchInventoryRowKeys(t *testing.T) {
	transport := &mockTransport{
		performFn: func(ctx context.Context, path, method string, body any) (*webhook.Result, *webhook.Failure) {
			return jsonResult(`[{"id":"p-1","upc":"111"},{"upc":"222"},{}]`), nil
		},
	}

	svc := NewInventoryService(transport, testConfig(), nil)
	products, fail := svc.FetchInventory(context.Background())
	if fail != nil {
		t.Fatalf("FetchInventory() failure = %v", fail)
	}

	if products[0].RowKey != "p-1" {
		t.Errorf("RowKey[0] = %s, want p-1 (id 优先)", products[0].RowKey)
	}
	if products[1].RowKey != "222" {
		t.Errorf("RowKey[1] = %s, want 222 (退到 upc)", products[1].RowKey)
	}
	// 两者皆无时合成临时键
	if !strings.HasPrefix(products[2].RowKey, "tmp-") {
		t.Errorf("RowKey[2] = %s, want tmp- prefix", products[2].RowKey)
	}
}

// ==================== 搜索与触发 ====================

func TestSearchByName(t *testing.T) {
	transport := &mockTransport{
		performFn: func(ctx context.Context, path, method string, body any) (*webhook.Result, *webhook.Failure) {
			if path != "/webhook/search-name" || method != http.MethodPost {
				t.Errorf("request = %s %s, want POST /webhook/search-name", method, path)
			}
			m, _ := body.(map[string]string)
			if m["searchTerm"] != "shoes" {
				t.Errorf("searchTerm = %q, want shoes", m["searchTerm"])
			}
			return jsonResult(`[{"id":"p-1","base_title":"Red Shoes"}]`), nil
		},
	}

	svc := NewInventoryService(transport, testConfig(), nil)
	products, fail := svc.SearchByName(context.Background(), "shoes")
	if fail != nil {
		t.Fatalf("SearchByName() failure = %v", fail)
	}
	if len(products) != 1 || products[0].DisplayTitle() != "Red Shoes" {
		t.Errorf("products = %v, want one Red Shoes", products)
	}
}

func TestScanUPC(t *testing.T) {
	t.Run("带消息回执", func(t *testing.T) {
		transport := &mockTransport{
			performFn: func(ctx context.Context, path, method string, body any) (*webhook.Result, *webhook.Failure) {
				return jsonResult(`{"message":"UPC queued"}`), nil
			},
		}
		svc := NewInventoryService(transport, testConfig(), nil)
		msg, fail := svc.ScanUPC(context.Background(), "0123456789012")
		if fail != nil {
			t.Fatalf("ScanUPC() failure = %v", fail)
		}
		if msg != "UPC queued" {
			t.Errorf("msg = %q, want UPC queued", msg)
		}
	})

	t.Run("空回执用默认文案", func(t *testing.T) {
		transport := &mockTransport{}
		svc := NewInventoryService(transport, testConfig(), nil)
		msg, fail := svc.ScanUPC(context.Background(), "0123456789012")
		if fail != nil {
			t.Fatalf("ScanUPC() failure = %v", fail)
		}
		if msg != "Processing started" {
			t.Errorf("msg = %q, want Processing started", msg)
		}
	})
}

func TestTriggerEnrichNullableUPC(t *testing.T) {
	var gotBody any
	transport := &mockTransport{
		performFn: func(ctx context.Context, path, method string, body any) (*webhook.Result, *webhook.Failure) {
			gotBody = body
			return jsonResult(`{"message":"AI processing initiated"}`), nil
		},
	}
	svc := NewInventoryService(transport, testConfig(), nil)

	// 空 UPC 按 JSON null 上送，表示全量增强
	if _, fail := svc.TriggerEnrich(context.Background(), ""); fail != nil {
		t.Fatalf("TriggerEnrich() failure = %v", fail)
	}
	m, _ := gotBody.(map[string]any)
	if v, ok := m["upc"]; !ok || v != nil {
		t.Errorf("upc = %v, want explicit null", v)
	}

	if _, fail := svc.TriggerEnrich(context.Background(), "111"); fail != nil {
		t.Fatalf("TriggerEnrich() failure = %v", fail)
	}
	m, _ = gotBody.(map[string]any)
	if m["upc"] != "111" {
		t.Errorf("upc = %v, want 111", m["upc"])
	}
}

// ==================== 详情页加载 ====================

func TestLoadDetail(t *testing.T) {
	t.Run("两路都成功", func(t *testing.T) {
		transport := &mockTransport{
			performFn: func(ctx context.Context, path, method string, body any) (*webhook.Result, *webhook.Failure) {
				if strings.HasPrefix(path, "/webhook/product/") {
					return jsonResult(`{"id":"p-1","base_title":"Red Shoes"}`), nil
				}
				return jsonResult(`[{"id":"7","name":"Footwear"}]`), nil
			},
		}

		svc := NewInventoryService(transport, testConfig(), nil)
		result := svc.LoadDetail(context.Background(), "p-1", 3)

		if result.Generation != 3 {
			t.Errorf("Generation = %d, want 3", result.Generation)
		}
		if result.Failure != nil {
			t.Fatalf("Failure = %v", result.Failure)
		}
		if result.Product == nil || result.Product.ID != "p-1" {
			t.Fatalf("Product = %v, want p-1", result.Product)
		}
		if len(result.Categories) != 1 || result.Categories[0].Name != "Footwear" {
			t.Errorf("Categories = %v, want [Footwear]", result.Categories)
		}
		if result.CategoryWarn != "" {
			t.Errorf("CategoryWarn = %q, want empty", result.CategoryWarn)
		}
	})

	t.Run("类目失败只降级", func(t *testing.T) {
		transport := &mockTransport{
			performFn: func(ctx context.Context, path, method string, body any) (*webhook.Result, *webhook.Failure) {
				if strings.HasPrefix(path, "/webhook/product/") {
					return jsonResult(`{"id":"p-1"}`), nil
				}
				return nil, &webhook.Failure{Kind: webhook.ErrKindHTTP, Status: 500, Message: "500"}
			},
		}

		svc := NewInventoryService(transport, testConfig(), nil)
		result := svc.LoadDetail(context.Background(), "p-1", 1)

		if result.Failure != nil {
			t.Fatalf("Failure = %v, want nil (degraded mode)", result.Failure)
		}
		if result.Product == nil {
			t.Fatal("Product = nil, want loaded")
		}
		if result.CategoryWarn == "" {
			t.Error("CategoryWarn = empty, want warning text")
		}
	})

	t.Run("商品失败才算整体失败", func(t *testing.T) {
		transport := &mockTransport{
			performFn: func(ctx context.Context, path, method string, body any) (*webhook.Result, *webhook.Failure) {
				if strings.HasPrefix(path, "/webhook/product/") {
					return nil, &webhook.Failure{Kind: webhook.ErrKindHTTP, Status: 404, Message: "404"}
				}
				return jsonResult(`[]`), nil
			},
		}

		svc := NewInventoryService(transport, testConfig(), nil)
		result := svc.LoadDetail(context.Background(), "p-404", 1)

		if result.Failure == nil || result.Failure.Status != 404 {
			t.Fatalf("Failure = %v, want 404", result.Failure)
		}
		if result.Product != nil {
			t.Errorf("Product = %v, want nil", result.Product)
		}
	})
}

// ==================== 图片操作 ====================

func TestUploadImage(t *testing.T) {
	t.Run("成功返回图片引用", func(t *testing.T) {
		transport := &mockTransport{
			multipartFn: func(ctx context.Context, path, method string, fields map[string]string, parts []webhook.FilePart) (*webhook.Result, *webhook.Failure) {
				if path != "/webhook/product-image/p-1" || method != http.MethodPost {
					t.Errorf("request = %s %s, want POST /webhook/product-image/p-1", method, path)
				}
				if len(parts) != 1 || parts[0].Name != "imageFile" || parts[0].FileName != "photo.jpg" {
					t.Errorf("parts = %v, want one imageFile photo.jpg", parts)
				}
				return jsonResult(`{"id":"img-9","url":"https://img.example/9","order":2}`), nil
			},
		}

		svc := NewInventoryService(transport, testConfig(), nil)
		img, fail := svc.UploadImage(context.Background(), "p-1", "photo.jpg", []byte("jpeg"))
		if fail != nil {
			t.Fatalf("UploadImage() failure = %v", fail)
		}
		if img.ID != "img-9" || img.Order != 2 {
			t.Errorf("img = %+v, want img-9 order 2", img)
		}
	})

	t.Run("缺 id 算解码失败", func(t *testing.T) {
		transport := &mockTransport{
			multipartFn: func(ctx context.Context, path, method string, fields map[string]string, parts []webhook.FilePart) (*webhook.Result, *webhook.Failure) {
				return jsonResult(`{"url":"https://img.example/9"}`), nil
			},
		}

		svc := NewInventoryService(transport, testConfig(), nil)
		_, fail := svc.UploadImage(context.Background(), "p-1", "photo.jpg", []byte("jpeg"))
		if fail == nil || fail.Kind != webhook.ErrKindDecode {
			t.Fatalf("failure = %v, want decode_error", fail)
		}
	})
}

func TestDeleteImage(t *testing.T) {
	var gotPath, gotMethod string
	transport := &mockTransport{
		performFn: func(ctx context.Context, path, method string, body any) (*webhook.Result, *webhook.Failure) {
			gotPath, gotMethod = path, method
			return &webhook.Result{}, nil
		},
	}

	svc := NewInventoryService(transport, testConfig(), nil)
	if fail := svc.DeleteImage(context.Background(), "p-1", "img-a"); fail != nil {
		t.Fatalf("DeleteImage() failure = %v", fail)
	}
	if gotPath != "/webhook/product-image/p-1/img-a" || gotMethod != http.MethodDelete {
		t.Errorf("request = %s %s, want DELETE /webhook/product-image/p-1/img-a", gotMethod, gotPath)
	}
}
