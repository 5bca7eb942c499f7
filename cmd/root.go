package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"inv_hub_v1/internal/config"
	"inv_hub_v1/internal/dispatcher"
	"inv_hub_v1/internal/repository"
	"inv_hub_v1/internal/router"
	"inv_hub_v1/internal/service"
	"inv_hub_v1/internal/webhook"
)

var rootCmd = &cobra.Command{
	Use:   "invhub",
	Short: "Terminal client for the inventory webhook backend",
	Long: `invhub talks to an inventory workflow backend over opaque HTTP webhooks:
scan UPCs, browse the inventory table, edit product drafts and images.
Running it without a subcommand starts the interactive TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
	SilenceUsage: true,
}

// Execute 程序入口
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ==================== 依赖容器 ====================

// App 一次运行的全部依赖，显式构造后向下注入
type App struct {
	Cfg        *config.Config
	Client     *webhook.Client
	Prefs      *repository.PreferenceRepo // 本地库打不开时为 nil
	Snapshots  *repository.SnapshotRepo   // 同上
	Inventory  *service.InventoryService
	Navigator  *router.Navigator
	Dispatcher *dispatcher.Dispatcher
	Cropper    service.Cropper
}

// buildApp 组装依赖
// 本地库只服务偏好与快照，打不开就降级运行，不算致命
func buildApp() *App {
	cfg := config.Load()

	app := &App{
		Cfg:        cfg,
		Client:     webhook.New(cfg.APIBaseURL),
		Navigator:  router.NewNavigator(),
		Dispatcher: dispatcher.New(),
		Cropper:    service.PassthroughCropper{},
	}

	if db, err := repository.OpenDB(cfg.DBPath); err != nil {
		log.Printf("[invhub] 本地库不可用，偏好与快照功能关闭: %v", err)
	} else {
		app.Prefs = repository.NewPreferenceRepo(db)
		app.Snapshots = repository.NewSnapshotRepo(db)
	}

	app.Inventory = service.NewInventoryService(app.Client, cfg, app.Snapshots)
	return app
}
