package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/texbridge/box"
	"github.com/ByLCY/texbridge/buffer"
	"github.com/ByLCY/texbridge/config"
	"github.com/ByLCY/texbridge/render"
	"github.com/ByLCY/texbridge/renderer"
	canvasrenderer "github.com/ByLCY/texbridge/renderer/canvas"
)

type renderOpts struct {
	commonOpts
	output       string // 输出路径，"-" 或空表示标准输出
	envelope     bool   // 输出 {"svg":...,"metrics":...}
	pdf          bool
	debugMetrics string // 关键字符统计 JSON 路径
	debugFrames  bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a box tree to SVG or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("json") {
				cfg.Envelope = opts.envelope
			}
			if opts.pdf {
				cfg.Format = string(renderer.FormatPDF)
			}
			if cmd.Flags().Changed("debug-frames") {
				cfg.DebugOverlay = opts.debugFrames
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.envelope, "json", false, "wrap the SVG and its pixel metrics in JSON")
	cmd.Flags().BoolVar(&opts.pdf, "pdf", false, "emit PDF instead of SVG")
	cmd.Flags().StringVar(&opts.debugMetrics, "debug-metrics", "", "write key character statistics to this JSON file")
	cmd.Flags().BoolVar(&opts.debugFrames, "debug-frames", false, "outline every non-space box")
	return cmd
}

// runRender 串联解析、绘制与输出。
func runRender(ctx context.Context, cfg config.Config, opts renderOpts, stdout io.Writer) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	root, err := readTree(opts.input)
	if err != nil {
		return err
	}
	h, err := newHandle(root, cfg)
	if err != nil {
		return err
	}
	defer destroyHandle(logger, h)

	if opts.debugMetrics != "" {
		if err := writeDebug(h, opts.debugMetrics); err != nil {
			return err
		}
	}

	backend, err := canvasrenderer.BackendFor(renderer.Format(strings.ToLower(cfg.Format)))
	if err != nil {
		return err
	}
	reg := buffer.NewRegistry(buffer.WithLogger(logger))
	var r renderer.Emitter = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		Backend:    backend,
		Registry:   reg,
		DPI:        cfg.DPI,
		FitContent: cfg.FitContent,
		Logger:     logger,
	})

	var out []byte
	if cfg.Envelope {
		out, err = r.EmitEnvelope(h)
	} else {
		out, err = r.Emit(h)
	}
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	defer func() {
		if err := reg.Release(out); err != nil {
			logger.Warn("释放输出缓冲区失败", "err", err)
		}
		reg.ReportLeaks()
	}()

	if err := writeOutput(opts.output, out, stdout); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("已生成 %s（%d 字节）", r.Format(), len(out)))
	return nil
}

func newHandle(root box.Node, cfg config.Config) (*render.Render, error) {
	fg, err := cfg.Color()
	if err != nil {
		return nil, err
	}
	ropts := []render.Option{render.WithForeground(fg), render.WithSplit(cfg.Split)}
	if cfg.DebugOverlay {
		ropts = append(ropts, render.WithDebugOverlay(box.NonSpace))
	}
	return render.New(root, cfg.TextSizePX(), ropts...)
}

// destroyHandle 在命令结束时销毁句柄，失败只记录日志。
func destroyHandle(logger *log.Logger, h *render.Render) {
	if err := h.Destroy(); err != nil {
		logger.Warn("销毁句柄失败", "err", err)
	}
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(h *render.Render, path string) error {
	stats, err := h.Stats()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := render.WriteDebugJSON(stats, path); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
