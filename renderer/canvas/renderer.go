package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/texbridge/buffer"
	"github.com/ByLCY/texbridge/render"
	"github.com/ByLCY/texbridge/renderer"
	"github.com/ByLCY/texbridge/svgmeta"
)

var (
	// ErrEmptyOutput 表示后端结束后没有产生任何字节。
	ErrEmptyOutput = errors.New("canvas: 输出为空")
	// ErrUnsupportedEnvelope 表示非文本格式无法放进 JSON 信封。
	ErrUnsupportedEnvelope = errors.New("canvas: JSON 信封只支持 SVG")
)

// Renderer 通过 github.com/tdewolff/canvas 把句柄序列化为矢量字节流。
type Renderer struct {
	backend  Backend
	registry *buffer.Registry
	dpi      int
	fit      bool
	logger   *log.Logger
}

var _ renderer.Emitter = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	Backend  Backend          // 默认 SVGBackend
	Registry *buffer.Registry // 默认 buffer.Default
	DPI      int              // 大于 0 时向 SVG 根标签写入 data-dpi
	// FitContent 让画布高度覆盖所有着墨区域，超出单元的字形不会被裁掉。
	FitContent bool
	Logger     *log.Logger
}

// NewRenderer creates an SVG renderer publishing into the process-wide registry.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with an explicit backend and registry.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		backend:  opts.Backend,
		registry: opts.Registry,
		dpi:      opts.DPI,
		fit:      opts.FitContent,
		logger:   opts.Logger,
	}
	if r.backend == nil {
		r.backend = SVGBackend{}
	}
	if r.registry == nil {
		r.registry = buffer.Default
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Format 返回后端的输出格式。
func (r *Renderer) Format() renderer.Format { return r.backend.Format() }

// Emit 绘制并返回已登记的字节（引用计数为 1）。
func (r *Renderer) Emit(h *render.Render) ([]byte, error) {
	out, err := r.serialize(h)
	if err != nil {
		return nil, err
	}
	if r.dpi > 0 && r.backend.Format() == renderer.FormatSVG {
		out = []byte(svgmeta.AddDPI(string(out), r.dpi))
	}
	return r.publish(out)
}

// EmitEnvelope 返回 {"svg":...,"metrics":{...}}，同样已登记。
func (r *Renderer) EmitEnvelope(h *render.Render) ([]byte, error) {
	if r.backend.Format() != renderer.FormatSVG {
		return nil, fmt.Errorf("%w: 当前格式 %s", ErrUnsupportedEnvelope, r.backend.Format())
	}
	out, err := r.serialize(h)
	if err != nil {
		return nil, err
	}
	text := string(out)
	if r.dpi > 0 {
		text = svgmeta.AddDPI(text, r.dpi)
	}
	m, err := h.Metrics()
	if err != nil {
		return nil, err
	}
	return r.publish(AppendEnvelope(nil, text, m))
}

// serialize 按“创建表面 → 绘制 → 刷新 → 结束”的顺序产出字节，不做登记。
func (r *Renderer) serialize(h *render.Render) ([]byte, error) {
	width, err := h.Width()
	if err != nil {
		return nil, err
	}
	height, err := h.Height()
	if err != nil {
		return nil, err
	}

	surfaceHeight, offset, err := r.surfaceHeight(h, height)
	if err != nil {
		return nil, fmt.Errorf("测量着墨区域失败: %w", err)
	}

	var buf bytes.Buffer
	w := sink(func(p []byte) { buf.Write(p) })

	surface, err := r.backend.NewSurface(w, float64(width), surfaceHeight)
	if err != nil {
		return nil, wrapInit(err, "创建绘图表面失败")
	}
	if surface == nil {
		return nil, fmt.Errorf("%w: 后端未返回绘图表面", ErrResourceInit)
	}
	ctx, err := surface.Context()
	if err != nil {
		return nil, wrapInit(err, "创建绘图上下文失败")
	}
	if ctx == nil {
		return nil, fmt.Errorf("%w: 后端未返回绘图上下文", ErrResourceInit)
	}

	if err := h.Draw(ctx, 0, offset); err != nil {
		return nil, fmt.Errorf("绘制盒子树失败: %w", err)
	}
	if err := surface.Flush(); err != nil {
		return nil, fmt.Errorf("刷新绘图表面失败: %w", err)
	}
	if err := surface.Finish(); err != nil {
		return nil, fmt.Errorf("结束绘图表面失败: %w", err)
	}

	if buf.Len() == 0 {
		r.logger.Warn("后端没有输出任何字节", "format", r.backend.Format(), "width", width, "height", height)
		return nil, ErrEmptyOutput
	}
	r.logger.Debug("序列化完成", "format", r.backend.Format(), "bytes", buf.Len(), "width", width, "height", height)
	return buf.Bytes(), nil
}

// inkTolerance 以下的着墨深度视为没有内容。
const inkTolerance = 0.02

// surfaceHeight 返回画布高度与内容的竖直偏移。开启 FitContent 且着墨最低点
// 超出 ascent 时，高度取 ceil(最低点)，内容下移取整余量的一半；否则为 ascent、偏移 0。
func (r *Renderer) surfaceHeight(h *render.Render, ascent int) (float64, float64, error) {
	if !r.fit {
		return float64(ascent), 0, nil
	}
	bottom, painted, err := h.InkBottom()
	if err != nil {
		return 0, 0, err
	}
	if !painted || bottom < inkTolerance {
		return float64(ascent), 0, nil
	}
	fitted := math.Ceil(bottom)
	if fitted <= float64(ascent) {
		return float64(ascent), 0, nil
	}
	r.logger.Debug("扩展画布高度以容纳着墨区域", "ascent", ascent, "ink", bottom, "height", fitted)
	return fitted, (fitted - bottom) / 2, nil
}

// publish 把结果复制进分配器提供的缓冲区并登记。
func (r *Renderer) publish(data []byte) ([]byte, error) {
	out, err := r.registry.Alloc(len(data))
	if err != nil {
		return nil, err
	}
	copy(out, data)
	r.registry.Publish(out)
	return out, nil
}

func wrapInit(err error, msg string) error {
	if errors.Is(err, ErrResourceInit) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrResourceInit, msg, err)
}
