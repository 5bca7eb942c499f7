package utils

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DownloadImage 下载网络图片并返回字节切片
// 裁剪暂存时用它取回当前服务端版本的字节
func DownloadImage(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("http get failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %v", err)
	}

	return data, nil
}

// LoadImageFile 从本地路径读入一张待上传的图片
// 返回字节与展示用文件名；内容嗅探不是图片时拒绝
func LoadImageFile(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read file failed: %v", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("file is empty: %s", path)
	}

	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return nil, "", fmt.Errorf("not an image file (detected %s): %s", ct, path)
	}

	return data, filepath.Base(path), nil
}
