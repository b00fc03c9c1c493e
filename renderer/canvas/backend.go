package canvasrenderer

import (
	"errors"
	"fmt"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/texbridge/render"
	"github.com/ByLCY/texbridge/renderer"
)

// ErrResourceInit 表示绘图后端、画布或上下文创建失败。
var ErrResourceInit = errors.New("canvas: 绘图资源初始化失败")

// Backend 创建写入 w 的绘图表面。
type Backend interface {
	Format() renderer.Format
	NewSurface(w io.Writer, width, height float64) (Surface, error)
}

// Surface 是一次序列化过程中的绘图表面。
// Flush 之后必须调用 Finish，字节流才算完整。
type Surface interface {
	Context() (render.Graphics, error)
	Flush() error
	Finish() error
}

// SVGBackend 通过 canvas 的 SVG 渲染器输出矢量文本。
type SVGBackend struct {
	Options *svg.Options
}

func (SVGBackend) Format() renderer.Format { return renderer.FormatSVG }

func (b SVGBackend) NewSurface(w io.Writer, width, height float64) (Surface, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	return newSurface(svg.New(w, width, height, b.Options), width, height), nil
}

// PDFBackend 通过 canvas 的 PDF 渲染器输出单页文档。
type PDFBackend struct {
	Options *pdf.Options
}

func (PDFBackend) Format() renderer.Format { return renderer.FormatPDF }

func (b PDFBackend) NewSurface(w io.Writer, width, height float64) (Surface, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	return newSurface(pdf.New(w, width, height, b.Options), width, height), nil
}

// BackendFor 按格式名返回后端。
func BackendFor(f renderer.Format) (Backend, error) {
	switch f {
	case renderer.FormatSVG, "":
		return SVGBackend{}, nil
	case renderer.FormatPDF:
		return PDFBackend{}, nil
	default:
		return nil, fmt.Errorf("%w: 不支持的格式 %q", ErrResourceInit, f)
	}
}

func checkSize(width, height float64) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: 画布尺寸为负 (%g x %g)", ErrResourceInit, width, height)
	}
	return nil
}

// target 是 canvas 渲染器加上收尾操作。
type target interface {
	canvas.Renderer
	Close() error
}

// canvasSurface 先在内存画布上记录绘制，Flush 时回放到目标渲染器。
type canvasSurface struct {
	c       *canvas.Canvas
	out     target
	ctx     *Graphics
	flushed bool
	closed  bool
}

func newSurface(out target, width, height float64) *canvasSurface {
	return &canvasSurface{c: canvas.New(width, height), out: out}
}

func (s *canvasSurface) Context() (render.Graphics, error) {
	if s.closed {
		return nil, fmt.Errorf("%w: 表面已结束", ErrResourceInit)
	}
	if s.ctx == nil {
		s.ctx = NewGraphics(canvas.NewContext(s.c))
	}
	return s.ctx, nil
}

func (s *canvasSurface) Flush() error {
	if s.closed {
		return fmt.Errorf("canvas: 表面已结束")
	}
	if s.flushed {
		return nil
	}
	s.flushed = true
	s.c.RenderTo(s.out)
	return nil
}

func (s *canvasSurface) Finish() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.out.Close(); err != nil {
		return fmt.Errorf("canvas: 结束输出失败: %w", err)
	}
	return nil
}

// sink 把所有写入交给同一个只追加的回调。
type sink func(p []byte)

func (s sink) Write(p []byte) (int, error) {
	s(p)
	return len(p), nil
}
