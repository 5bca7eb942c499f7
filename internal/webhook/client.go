package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 结果载荷 ====================

// Result 成功载荷
// Data 为 nil 表示 204 或空响应体 (对 DELETE/PUT 属正常)
type Result struct {
	Data json.RawMessage
}

// Decode 把载荷解析到目标结构
// 空载荷直接返回 nil，目标保持零值
func (r *Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// FilePart 多部分请求中的一个二进制部分
type FilePart struct {
	Name     string
	FileName string
	Data     []byte
}

// ==================== 客户端 ====================

// StatusFunc 每次调用时上报一条人类可读状态
// 仅供展示，任何实现都不得影响控制流
type StatusFunc func(stage string)

// Client webhook 传输客户端
// 全系统统一的出站请求入口，对调用方永不抛错：
// 每次调用恰好返回 (*Result, nil) 或 (nil, *Failure) 之一
type Client struct {
	baseURL string
	http    *resty.Client
	status  StatusFunc
}

// New 创建传输客户端
// 不做任何自动重试，重试与否由调用方 (也就是用户) 决定
func New(baseURL string) *Client {
	c := resty.New().
		SetTimeout(20*time.Second). // 库存拉取可能较慢，给 20s
		SetRetryCount(0).
		SetHeader("User-Agent", "InvHub-Go-App/1.0")

	return &Client{
		baseURL: baseURL,
		http:    c,
	}
}

// SetStatusFunc 挂接状态上报回调 (可为 nil)
func (c *Client) SetStatusFunc(fn StatusFunc) {
	c.status = fn
}

func (c *Client) report(format string, args ...any) {
	if c.status != nil {
		c.status(fmt.Sprintf(format, args...))
	}
}

// Perform 发起一次结构化请求
// body 非 nil 时按 JSON 编码并显式带 Content-Type
func (c *Client) Perform(ctx context.Context, path, method string, body any) (*Result, *Failure) {
	if fail := c.checkConfig(path); fail != nil {
		return nil, fail
	}

	c.report("Performing %s %s...", method, path)

	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, c.baseURL+path)
	return c.classify(path, resp, err)
}

// PerformMultipart 发起一次 multipart/form-data 请求
// 不覆盖 Content-Type，边界由底层自动生成；二进制部分按传入顺序写出
func (c *Client) PerformMultipart(ctx context.Context, path, method string, fields map[string]string, parts []FilePart) (*Result, *Failure) {
	if fail := c.checkConfig(path); fail != nil {
		return nil, fail
	}

	c.report("Performing %s %s (multipart, %d binary part(s))...", method, path, len(parts))

	req := c.http.R().SetContext(ctx)
	if len(fields) > 0 {
		req.SetMultipartFormData(fields)
	}
	for _, p := range parts {
		// contentType 留空，让底层按字节自行探测，不做人为覆盖
		req.SetMultipartField(p.Name, p.FileName, "", bytes.NewReader(p.Data))
	}
	// 没有任何 field/part 时 resty 不会走 multipart 编码，
	// 该情况只在调用方构造错误时出现，照常发出由对端裁决

	resp, err := req.Execute(method, c.baseURL+path)
	return c.classify(path, resp, err)
}

// ==================== 内部 ====================

func (c *Client) checkConfig(path string) *Failure {
	if c.baseURL == "" || path == "" {
		msg := fmt.Sprintf("API URL for %q is missing", path)
		c.report("Error: %s", msg)
		return &Failure{Kind: ErrKindConfigMissing, Message: msg}
	}
	return nil
}

// classify 把 resty 的结果归一化为 Result / Failure
func (c *Client) classify(path string, resp *resty.Response, err error) (*Result, *Failure) {
	if err != nil {
		c.report("Network error on %s: %v", path, err)
		return nil, &Failure{
			Kind:    ErrKindNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Cause:   err,
		}
	}

	if !resp.IsSuccess() {
		c.report("Error on %s: %s", path, resp.Status())
		return nil, &Failure{
			Kind:    ErrKindHTTP,
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("%s. %s", resp.Status(), string(resp.Body())),
		}
	}

	body := bytes.TrimSpace(resp.Body())
	// 204 或空体：成功但无数据
	if resp.StatusCode() == 204 || len(body) == 0 {
		c.report("Done: %s (no content)", path)
		return &Result{}, nil
	}

	if !json.Valid(body) {
		c.report("Error: invalid data format received from %s", path)
		return nil, &Failure{
			Kind:    ErrKindDecode,
			Message: "invalid data format received from server",
		}
	}

	c.report("Done: %s", path)
	return &Result{Data: json.RawMessage(body)}, nil
}
