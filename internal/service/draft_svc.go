package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"inv_hub_v1/internal/webhook"
)

// ==================== 外部依赖 ====================

// Transport 出站传输接口
// 由 webhook.Client 实现；测试中用内存桩替换
type Transport interface {
	Perform(ctx context.Context, path, method string, body any) (*webhook.Result, *webhook.Failure)
	PerformMultipart(ctx context.Context, path, method string, fields map[string]string, parts []webhook.FilePart) (*webhook.Result, *webhook.Failure)
}

// ==================== 草稿提交 ====================

// ErrSubmitInFlight 已有一次提交在途
// 重入的提交被直接拒绝，不排队
var ErrSubmitInFlight = errors.New("a submission is already in flight for this draft")

// DraftFields 草稿里的标量字段编辑
type DraftFields struct {
	Title       string
	Description string
	UPC         string
	Quantity    string
	MarketValue string
	CategoryID  string
}

// SubmitOutcome 一次提交的结局
// Success 为真时调用方应离开编辑态并刷新列表；
// 为假时停在原地展示 Message，草稿 (含图库顺序) 原样保留供重试
type SubmitOutcome struct {
	Success bool
	Message string
}

// DraftService 草稿调和器
// 状态机：Idle -> Submitting -> Idle；一个实例对应一个打开的草稿
type DraftService struct {
	transport   Transport
	productPath string

	// Submitting 标志，CAS 保证同一草稿最多一笔在途提交
	submitting atomic.Bool
}

// NewDraftService 创建草稿服务
func NewDraftService(transport Transport, productPath string) *DraftService {
	return &DraftService{
		transport:   transport,
		productPath: productPath,
	}
}

// Submitting 是否有提交在途 (界面禁用保存按钮用)
func (s *DraftService) Submitting() bool {
	return s.submitting.Load()
}

// Submit 把标量字段、当前图库顺序和全部暂存裁剪合并为一次更新请求
//
// 约定：
//  1. 标量 + imageOrder (JSON id 列表) 进 form 字段；
//  2. 暂存裁剪以 croppedImage_<id> 二进制部分上送，并在得知结果之前
//     就已从图库清空 —— 同一份字节绝不会对着另一个服务端状态重放；
//  3. 后端看到的要么是完整更新，要么什么都没有
func (s *DraftService) Submit(ctx context.Context, productID string, fields DraftFields, gallery *GalleryState) (*SubmitOutcome, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer s.submitting.Store(false)

	orderJSON, err := json.Marshal(gallery.Order())
	if err != nil {
		return nil, fmt.Errorf("serialize image order: %w", err)
	}

	form := map[string]string{
		"title":        fields.Title,
		"description":  fields.Description,
		"upc":          fields.UPC,
		"quantity":     fields.Quantity,
		"market_value": fields.MarketValue,
		"category_id":  fields.CategoryID,
		"imageOrder":   string(orderJSON),
	}

	// 取走即清空：提交失败也不保留，防止字节对上一个服务端状态重放
	staged := gallery.ConsumeStagedEdits()
	parts := make([]webhook.FilePart, 0, len(staged))
	for imageID, blob := range staged {
		parts = append(parts, webhook.FilePart{
			Name:     "croppedImage_" + imageID,
			FileName: fmt.Sprintf("cropped_%s.jpg", imageID),
			Data:     blob,
		})
	}

	res, fail := s.transport.PerformMultipart(ctx, s.productPath+"/"+productID, http.MethodPut, form, parts)
	if fail != nil {
		return &SubmitOutcome{Success: false, Message: fail.Error()}, nil
	}

	// 后端可能显式回 {"success": false}
	var body struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := res.Decode(&body); err == nil && body.Success != nil && !*body.Success {
		msg := body.Message
		if msg == "" {
			msg = "server rejected the update"
		}
		return &SubmitOutcome{Success: false, Message: msg}, nil
	}

	return &SubmitOutcome{Success: true, Message: fmt.Sprintf("Product %s saved successfully.", productID)}, nil
}
