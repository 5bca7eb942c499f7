package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ==================== 客户端配置 ====================

// Config 客户端全局配置
// 后端是一组不透明的 webhook 端点 (n8n 等工作流引擎)，
// 这里只描述"去哪里请求"，不描述任何后端语义
type Config struct {
	// --- Webhook 端点 ---
	APIBaseURL       string // 如 http://localhost:8787
	InventoryPath    string // GET  库存列表
	ScanPath         string // POST UPC 扫描
	EnrichPath       string // POST 触发 AI 增强 (异步，后端自行处理)
	SearchPath       string // POST 按名称搜索
	ProductPath      string // GET/PUT 单个商品
	ProductImagePath string // POST/DELETE 商品图片
	CategoriesPath   string // GET  类目列表

	// --- 本地存储 ---
	// sqlite 文件路径，存主题偏好与库存快照 (localStorage 的替代)
	DBPath string

	// --- 界面 ---
	// 强制主题 ("light"|"dark")，为空时走 本地偏好 -> 终端背景探测 链路
	Theme string
}

// Load 加载配置
// 优先级：环境变量 > .env 文件 > 默认值
// 注意：返回的是显式构造的实例，由 cmd 层注入到各服务，不做包级单例
func Load() *Config {
	// .env 不存在属于正常情况，忽略错误
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:       getEnv("INVHUB_API_BASE_URL", "http://localhost:8787"),
		InventoryPath:    getEnv("INVHUB_INVENTORY_PATH", "/webhook/inventory"),
		ScanPath:         getEnv("INVHUB_SCAN_PATH", "/webhook/scan-upc"),
		EnrichPath:       getEnv("INVHUB_ENRICH_PATH", "/webhook/enrich-product"),
		SearchPath:       getEnv("INVHUB_SEARCH_PATH", "/webhook/search-name"),
		ProductPath:      getEnv("INVHUB_PRODUCT_PATH", "/webhook/product"),
		ProductImagePath: getEnv("INVHUB_PRODUCT_IMAGE_PATH", "/webhook/product-image"),
		CategoriesPath:   getEnv("INVHUB_CATEGORIES_PATH", "/webhook/categories"),
		DBPath:           getEnv("INVHUB_DB_PATH", defaultDBPath()),
		Theme:            getEnv("INVHUB_THEME", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// defaultDBPath 默认放在用户配置目录下
func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "invhub.db"
	}
	return filepath.Join(dir, "invhub", "invhub.db")
}
