package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"inv_hub_v1/internal/dispatcher"
	"inv_hub_v1/internal/model"
	"inv_hub_v1/internal/tui"
	"inv_hub_v1/pkg/utils"
)

// ==================== 动作处理函数 ====================
// 派发器是唯一的事件入口：这里把每种动作接到对应服务上，
// 结果统一用 send 回流到界面。处理函数在派发 goroutine 里
// 同步跑完，在途守卫因此覆盖完整的网络窗口

func registerHandlers(app *App, send func(tea.Msg)) {
	d := app.Dispatcher

	// 刷新列表：序号由列表屏在发起时分配，结果原样带回，
	// 界面只落地最新序号的那份
	refresh := func(ctx context.Context, seq uint64) {
		products, fail := app.Inventory.FetchInventory(ctx)
		send(tui.InventoryLoadedMsg{Seq: seq, Products: products, Failure: fail, Mode: "inventory"})
	}

	d.Register(dispatcher.ActionRefresh, func(ctx context.Context, act dispatcher.Action) error {
		p, ok := act.Payload.(tui.RefreshPayload)
		if !ok {
			return fmt.Errorf("refresh: unexpected payload %T", act.Payload)
		}
		refresh(ctx, p.Seq)
		return nil
	})

	d.Register(dispatcher.ActionSearch, func(ctx context.Context, act dispatcher.Action) error {
		p, ok := act.Payload.(tui.SearchPayload)
		if !ok {
			return fmt.Errorf("search: unexpected payload %T", act.Payload)
		}
		products, fail := app.Inventory.SearchByName(ctx, p.Term)
		send(tui.InventoryLoadedMsg{Seq: p.Seq, Products: products, Failure: fail, Mode: "search"})
		return nil
	})

	d.Register(dispatcher.ActionScan, func(ctx context.Context, act dispatcher.Action) error {
		p, ok := act.Payload.(tui.ScanPayload)
		if !ok {
			return fmt.Errorf("scan: unexpected payload %T", act.Payload)
		}
		msg, fail := app.Inventory.ScanUPC(ctx, p.UPC)
		send(tui.ScanDoneMsg{UPC: p.UPC, Message: msg, Failure: fail})
		if fail == nil {
			// 扫描成功后整表刷新
			refresh(ctx, p.Seq)
		}
		return nil
	})

	d.Register(dispatcher.ActionEnrich, func(ctx context.Context, act dispatcher.Action) error {
		p, ok := act.Payload.(tui.EnrichPayload)
		if !ok {
			return fmt.Errorf("enrich: unexpected payload %T", act.Payload)
		}
		msg, fail := app.Inventory.TriggerEnrich(ctx, p.UPC)
		send(tui.EnrichDoneMsg{UPC: p.UPC, Message: msg, Failure: fail})
		return nil
	})

	// 进入详情：先导航 (代号 +1)，再并发加载商品与类目
	d.Register(dispatcher.ActionOpenDetail, func(ctx context.Context, act dispatcher.Action) error {
		state, gen := app.Navigator.Go("#product/" + act.ProductID)
		send(tui.ViewChangedMsg{State: state, Gen: gen})
		result := app.Inventory.LoadDetail(ctx, act.ProductID, gen)
		send(tui.DetailLoadedMsg{Result: result})
		return nil
	})

	d.Register(dispatcher.ActionSubmitDraft, func(ctx context.Context, act dispatcher.Action) error {
		p, ok := act.Payload.(tui.SubmitPayload)
		if !ok {
			return fmt.Errorf("submit: unexpected payload %T", act.Payload)
		}
		outcome, err := p.Draft.Submit(ctx, act.ProductID, p.Fields, p.Gallery)
		send(tui.SubmitDoneMsg{ProductID: act.ProductID, Outcome: outcome, Err: err})
		return nil
	})

	d.Register(dispatcher.ActionUploadImage, func(ctx context.Context, act dispatcher.Action) error {
		p, ok := act.Payload.(tui.UploadPayload)
		if !ok {
			return fmt.Errorf("upload: unexpected payload %T", act.Payload)
		}

		data, name, err := utils.LoadImageFile(p.Path)
		if err != nil {
			return fmt.Errorf("load image: %w", err)
		}

		img, fail := app.Inventory.UploadImage(ctx, act.ProductID, name, data)
		if fail == nil {
			// 新图永远挂到权威顺序末尾
			p.Gallery.Insert(*img)
		}
		send(tui.ImageUploadedMsg{FileName: name, Image: img, Failure: fail})
		return nil
	})

	d.Register(dispatcher.ActionDeleteImage, func(ctx context.Context, act dispatcher.Action) error {
		p, ok := act.Payload.(tui.DeleteImagePayload)
		if !ok {
			return fmt.Errorf("delete: unexpected payload %T", act.Payload)
		}
		fail := app.Inventory.DeleteImage(ctx, act.ProductID, act.ImageID)
		if fail == nil {
			// 远端删成功才动本地顺序；暂存裁剪一并丢弃
			p.Gallery.Remove(act.ImageID)
		}
		send(tui.ImageDeletedMsg{ImageID: act.ImageID, Failure: fail})
		return nil
	})

	d.Register(dispatcher.ActionStageCrop, func(ctx context.Context, act dispatcher.Action) error {
		p, ok := act.Payload.(tui.CropPayload)
		if !ok {
			return fmt.Errorf("crop: unexpected payload %T", act.Payload)
		}

		src, err := utils.DownloadImage(p.URL)
		if err == nil {
			var cropped []byte
			if cropped, err = app.Cropper.Crop(src); err == nil {
				p.Gallery.StageEdit(act.ImageID, cropped)
			}
		}
		send(tui.CropStagedMsg{ImageID: act.ImageID, Err: err})
		return nil
	})

	d.Register(dispatcher.ActionToggleTheme, func(ctx context.Context, act dispatcher.Action) error {
		p, ok := act.Payload.(tui.ThemePayload)
		if !ok {
			return fmt.Errorf("theme: unexpected payload %T", act.Payload)
		}
		if app.Prefs != nil {
			theme := model.ThemeLight
			if p.Dark {
				theme = model.ThemeDark
			}
			if err := app.Prefs.SetTheme(theme); err != nil {
				return fmt.Errorf("persist theme: %w", err)
			}
		}
		send(tui.ThemeChangedMsg{Dark: p.Dark})
		return nil
	})
}
