package webhook

import "fmt"

// ==================== 失败分类 ====================

// ErrorKind 传输层失败类别
type ErrorKind int

const (
	// ErrKindConfigMissing 端点未配置 (base URL 或路径为空)
	ErrKindConfigMissing ErrorKind = iota
	// ErrKindNetwork 请求没到达对端 (DNS、连接、超时等)
	ErrKindNetwork
	// ErrKindHTTP 对端返回了非 2xx 状态码
	ErrKindHTTP
	// ErrKindDecode 2xx 但响应体不是合法 JSON
	ErrKindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindConfigMissing:
		return "config_missing"
	case ErrKindNetwork:
		return "network_error"
	case ErrKindHTTP:
		return "http_error"
	case ErrKindDecode:
		return "decode_error"
	}
	return "unknown"
}

// Failure 类型化的传输失败
// 传输层对外永远不 panic：要么给 Result，要么给 *Failure
type Failure struct {
	Kind    ErrorKind
	Status  int    // 仅 ErrKindHTTP 有效
	Message string // 面向用户的一句话描述
	Cause   error  // 底层错误，可为 nil
}

func (f *Failure) Error() string {
	if f.Kind == ErrKindHTTP {
		return fmt.Sprintf("[%s] %d: %s", f.Kind, f.Status, f.Message)
	}
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}
