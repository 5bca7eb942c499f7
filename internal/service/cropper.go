package service

// ==================== 裁剪器接口 ====================

// Cropper 外部裁剪部件的接口
// 像素级处理不在本系统范围内：输入输出都是不透明字节，
// 任何等价实现 (外部工具、库) 可直接替换而不影响图库契约
type Cropper interface {
	// Crop 对源图字节做裁剪，返回替换用的新字节
	Crop(src []byte) ([]byte, error)
}

// PassthroughCropper 缺省实现：原样返回
// 终端环境没有可视裁剪框，确认裁剪即把当前字节整体暂存；
// 接入真实裁剪工具时替换此实现即可
type PassthroughCropper struct{}

func (PassthroughCropper) Crop(src []byte) ([]byte, error) {
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}
