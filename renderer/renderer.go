package renderer

import "github.com/ByLCY/texbridge/render"

// Format 标识序列化输出的格式。
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// Emitter 将句柄绘制为矢量字节流。
// Emit 返回已在缓冲区表中登记的字节；调用方用完后需要释放。
// EmitEnvelope 返回包含矢量文本与像素尺寸的 JSON。
type Emitter interface {
	Format() Format
	Emit(r *render.Render) ([]byte, error)
	EmitEnvelope(r *render.Render) ([]byte, error)
}
