package service

import (
	"errors"
	"log"
	"sort"
	"sync"

	"inv_hub_v1/internal/model"
)

// ==================== 图库状态 ====================

// ErrOrderMismatch 重排序列的 id 集合与当前集合不一致
// 典型来源：拖拽事件落在了过期的渲染结果上
var ErrOrderMismatch = errors.New("image order mismatch: id set differs from current gallery")

// GalleryState 单个商品草稿的图库状态
// 持有权威顺序 (authoritative order)：渲染集合与提交用的顺序列表
// 永远以它为准。单写者模型，锁只是防御 TUI 回调与提交路径交错
type GalleryState struct {
	mu     sync.Mutex
	images []model.ProductImage
	// 暂存的裁剪替换：imageID -> 待上送字节
	// 后确认覆盖先确认；提交时一次性取走并清空
	staged map[string][]byte
}

// NewGalleryState 以服务端图片列表初始化
// 按 order 升序稳定排序，order 相同时保持输入顺序
func NewGalleryState(images []model.ProductImage) *GalleryState {
	g := &GalleryState{
		images: make([]model.ProductImage, len(images)),
		staged: make(map[string][]byte),
	}
	copy(g.images, images)
	sort.SliceStable(g.images, func(i, j int) bool {
		return g.images[i].Order < g.images[j].Order
	})
	return g
}

// Insert 追加一张新图 (上传成功后调用)
// 视觉位置永远排在末尾，与上传批次内的位置无关
func (g *GalleryState) Insert(img model.ProductImage) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.indexOf(img.ID) >= 0 {
		log.Printf("[gallery] 忽略重复插入: %s", img.ID)
		return
	}
	g.images = append(g.images, img)
}

// Remove 移除一张图
// id 不存在时静默跳过；若它有暂存裁剪，一并丢弃
func (g *GalleryState) Remove(imageID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.indexOf(imageID)
	if idx < 0 {
		return
	}
	g.images = append(g.images[:idx], g.images[idx+1:]...)
	delete(g.staged, imageID)
}

// Reorder 整体替换权威顺序
// 新序列的 id 集合必须与当前集合完全一致，否则拒绝并保持原序
func (g *GalleryState) Reorder(ids []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(ids) != len(g.images) {
		log.Printf("[gallery] 重排被拒绝: 数量不符 (%d != %d)", len(ids), len(g.images))
		return ErrOrderMismatch
	}

	byID := make(map[string]model.ProductImage, len(g.images))
	for _, img := range g.images {
		byID[img.ID] = img
	}

	next := make([]model.ProductImage, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		img, ok := byID[id]
		if !ok || seen[id] {
			log.Printf("[gallery] 重排被拒绝: 未知或重复的 id %q", id)
			return ErrOrderMismatch
		}
		seen[id] = true
		next = append(next, img)
	}

	g.images = next
	return nil
}

// StageEdit 记录 (或覆盖) 一张图的裁剪替换
// id 不在当前集合时不做任何事
func (g *GalleryState) StageEdit(imageID string, blob []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.indexOf(imageID) < 0 {
		log.Printf("[gallery] 忽略对未知图片的暂存: %s", imageID)
		return
	}
	g.staged[imageID] = blob
}

// ConsumeStagedEdits 取走全部暂存裁剪并原子清空
// 每次提交恰好调用一次；无论提交成败，这些字节都不会被二次使用
func (g *GalleryState) ConsumeStagedEdits() map[string][]byte {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := g.staged
	g.staged = make(map[string][]byte)
	return out
}

// Order 当前权威顺序的 id 列表
func (g *GalleryState) Order() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]string, len(g.images))
	for i, img := range g.images {
		ids[i] = img.ID
	}
	return ids
}

// Images 当前有序图片列表的副本
func (g *GalleryState) Images() []model.ProductImage {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]model.ProductImage, len(g.images))
	copy(out, g.images)
	return out
}

// StagedCount 当前暂存裁剪数 (界面标记用)
func (g *GalleryState) StagedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.staged)
}

// HasStaged 某张图是否有暂存裁剪
func (g *GalleryState) HasStaged(imageID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.staged[imageID]
	return ok
}

// indexOf 调用方须持锁
func (g *GalleryState) indexOf(imageID string) int {
	for i, img := range g.images {
		if img.ID == imageID {
			return i
		}
	}
	return -1
}
