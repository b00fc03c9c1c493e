// Package bridge is the host-facing boundary.
//
// Render handles are addressed by opaque numeric handles so that every call
// on a deleted or unknown handle is rejected with ErrInvalidHandle instead of
// touching freed state. Panics raised below the boundary are converted into
// errors; failed calls never return a payload.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/texbridge/box"
	"github.com/ByLCY/texbridge/buffer"
	"github.com/ByLCY/texbridge/render"
	canvasrenderer "github.com/ByLCY/texbridge/renderer/canvas"
)

// 边界上的错误分类。
var (
	ErrResourceInit      = canvasrenderer.ErrResourceInit
	ErrEmptyOutput       = canvasrenderer.ErrEmptyOutput
	ErrAllocation        = buffer.ErrAllocation
	ErrProtocolViolation = buffer.ErrProtocolViolation
	ErrInvalidHandle     = errors.New("bridge: 无效句柄")
	ErrPanic             = errors.New("bridge: 内部异常")
)

// Handle 标识一个 Render。零值永远无效。
type Handle uint64

// Bridge 持有句柄表与输出使用的缓冲区表。
type Bridge struct {
	mu       sync.Mutex
	next     Handle
	renders  map[Handle]*render.Render
	registry *buffer.Registry
	backend  canvasrenderer.Backend
	logger   *log.Logger
}

// Option 配置 Bridge。
type Option func(*Bridge)

// WithRegistry 指定输出缓冲区登记到哪个表，默认 buffer.Default。
func WithRegistry(reg *buffer.Registry) Option {
	return func(b *Bridge) {
		if reg != nil {
			b.registry = reg
		}
	}
}

// WithBackend 替换 SVG 后端（测试中用于注入失败）。
func WithBackend(be canvasrenderer.Backend) Option {
	return func(b *Bridge) {
		if be != nil {
			b.backend = be
		}
	}
}

// WithLogger 设置诊断日志。
func WithLogger(l *log.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// New 创建一个空的边界实例。
func New(opts ...Option) *Bridge {
	b := &Bridge{
		renders:  map[Handle]*render.Render{},
		registry: buffer.Default,
		backend:  canvasrenderer.SVGBackend{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// guard 把下层的 panic 转成错误。
func (b *Bridge) guard(op string, err *error) {
	if v := recover(); v != nil {
		b.logger.Error("边界调用发生异常", "op", op, "panic", v)
		*err = fmt.Errorf("%w: %s: %v", ErrPanic, op, v)
	}
}

func (b *Bridge) lookup(h Handle) (*render.Render, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.renders[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return r, nil
}

// mapErr 把句柄层的“已销毁”统一成 ErrInvalidHandle。
func mapErr(err error) error {
	if errors.Is(err, render.ErrDestroyed) {
		return fmt.Errorf("%w: %v", ErrInvalidHandle, err)
	}
	return err
}

// NewRender 以盒子树和字号创建句柄。树必须比句柄活得更久。
func (b *Bridge) NewRender(root box.Node, textSize float64, split bool, opts ...render.Option) (h Handle, err error) {
	defer b.guard("NewRender", &err)
	opts = append([]render.Option{render.WithSplit(split)}, opts...)
	r, err := render.New(root, textSize, opts...)
	if err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	h = b.next
	b.renders[h] = r
	return h, nil
}

// DeleteRender 销毁句柄，只能调用一次。
func (b *Bridge) DeleteRender(h Handle) (err error) {
	defer b.guard("DeleteRender", &err)
	b.mu.Lock()
	r, ok := b.renders[h]
	delete(b.renders, h)
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return mapErr(r.Destroy())
}

// Live 返回尚未销毁的句柄数量。
func (b *Bridge) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.renders)
}

// measure 是各个整数度量查询的公共流程。
func (b *Bridge) measure(op string, h Handle, get func(*render.Render) (int, error)) (v int, err error) {
	defer b.guard(op, &err)
	r, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	v, err = get(r)
	if err != nil {
		return 0, mapErr(err)
	}
	return v, nil
}

func (b *Bridge) Width(h Handle) (int, error) {
	return b.measure("Width", h, (*render.Render).Width)
}

func (b *Bridge) Height(h Handle) (int, error) {
	return b.measure("Height", h, (*render.Render).Height)
}

func (b *Bridge) Depth(h Handle) (int, error) {
	return b.measure("Depth", h, (*render.Render).Depth)
}

func (b *Bridge) Baseline(h Handle) (v float64, err error) {
	defer b.guard("Baseline", &err)
	r, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	v, err = r.Baseline()
	return v, mapErr(err)
}

func (b *Bridge) IsSplit(h Handle) (v bool, err error) {
	defer b.guard("IsSplit", &err)
	r, err := b.lookup(h)
	if err != nil {
		return false, err
	}
	v, err = r.IsSplit()
	return v, mapErr(err)
}

func (b *Bridge) SetTextSize(h Handle, size float64) (err error) {
	defer b.guard("SetTextSize", &err)
	r, err := b.lookup(h)
	if err != nil {
		return err
	}
	return mapErr(r.SetTextSize(size))
}

func (b *Bridge) SetForeground(h Handle, c box.Color) (err error) {
	defer b.guard("SetForeground", &err)
	r, err := b.lookup(h)
	if err != nil {
		return err
	}
	return mapErr(r.SetForeground(c))
}

// Draw 在调用方提供的绘图上下文上绘制。
func (b *Bridge) Draw(h Handle, g render.Graphics, x, y float64) (err error) {
	defer b.guard("Draw", &err)
	r, err := b.lookup(h)
	if err != nil {
		return err
	}
	return mapErr(r.Draw(g, x, y))
}

// KeyCharMetrics 返回原生单位下的字符高度与深度序列。
func (b *Bridge) KeyCharMetrics(h Handle) (heights, depths []int, err error) {
	defer b.guard("KeyCharMetrics", &err)
	r, err := b.lookup(h)
	if err != nil {
		return nil, nil, err
	}
	heights, depths, err = r.KeyCharMetrics()
	if err != nil {
		return nil, nil, mapErr(err)
	}
	return heights, depths, nil
}

// KeyCharMetricsJSON 返回统计结果的 JSON，缓冲区已登记，需要 FreeBuffer。
func (b *Bridge) KeyCharMetricsJSON(h Handle) (out []byte, err error) {
	defer b.guard("KeyCharMetricsJSON", &err)
	r, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	stats, err := r.Stats()
	if err != nil {
		return nil, mapErr(err)
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return nil, err
	}
	out, err = b.registry.Alloc(len(data))
	if err != nil {
		return nil, err
	}
	copy(out, data)
	b.registry.Publish(out)
	return out, nil
}

// BoxTreeHeight 返回根节点的原生总高度。
func (b *Bridge) BoxTreeHeight(h Handle) (v float64, err error) {
	defer b.guard("BoxTreeHeight", &err)
	r, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	v, err = r.BoxTreeHeight()
	return v, mapErr(err)
}

func (b *Bridge) emitter(dpi int) *canvasrenderer.Renderer {
	return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		Backend:    b.backend,
		Registry:   b.registry,
		DPI:        dpi,
		FitContent: true,
		Logger:     b.logger,
	})
}

// RenderToSVG 返回 SVG 字节；dpi 大于 0 时写入 data-dpi。
func (b *Bridge) RenderToSVG(h Handle, dpi int) (out []byte, err error) {
	defer b.guard("RenderToSVG", &err)
	r, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	out, err = b.emitter(dpi).Emit(r)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// RenderToSVGWithMetrics 返回 SVG 与像素尺寸的 JSON 信封。
func (b *Bridge) RenderToSVGWithMetrics(h Handle, dpi int) (out []byte, err error) {
	defer b.guard("RenderToSVGWithMetrics", &err)
	r, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	out, err = b.emitter(dpi).EmitEnvelope(r)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// Result 组合 JSON 信封与关键字符统计。Envelope 已登记，用完后需要 FreeBuffer。
// KeyChars 在统计失败时为 nil，信封本身不受影响。
type Result struct {
	Envelope []byte
	KeyChars *render.Stats
}

// RenderToSVGWithStats 与 RenderToSVGWithMetrics 输出相同的信封字节，另附关键字符统计。
func (b *Bridge) RenderToSVGWithStats(h Handle, dpi int) (res Result, err error) {
	defer b.guard("RenderToSVGWithStats", &err)
	r, err := b.lookup(h)
	if err != nil {
		return Result{}, err
	}
	var keyChars *render.Stats
	if stats, err := r.Stats(); err == nil {
		keyChars = &stats
	} else {
		b.logger.Debug("关键字符统计失败，仅返回信封", "handle", h, "err", err)
	}
	out, err := b.emitter(dpi).EmitEnvelope(r)
	if err != nil {
		return Result{}, mapErr(err)
	}
	return Result{Envelope: out, KeyChars: keyChars}, nil
}

// RetainBuffer 增加缓冲区引用。
func (b *Bridge) RetainBuffer(buf []byte) {
	b.registry.Retain(buf)
}

// FreeBuffer 释放一次引用；对未登记的缓冲区返回 ErrProtocolViolation。
func (b *Bridge) FreeBuffer(buf []byte) error {
	return b.registry.Release(buf)
}
