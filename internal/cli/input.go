package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/texbridge/box"
	"github.com/ByLCY/texbridge/config"
	"github.com/ByLCY/texbridge/dsl"
)

// commonOpts 是 render 与 metrics 共用的输入参数。
type commonOpts struct {
	input      string
	configPath string
	textSize   string
	dpi        int
}

func (o *commonOpts) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.input, "in", "", "box tree file (dsl format)")
	cmd.Flags().StringVar(&o.configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&o.textSize, "text-size", "", "text size, e.g. 20px, 12pt, 5mm")
	cmd.Flags().IntVar(&o.dpi, "dpi", 0, "output DPI written to the SVG root")
	_ = cmd.MarkFlagRequired("in")
}

// loadConfig 先读配置文件，再用显式给出的命令行参数覆盖。
func (o *commonOpts) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("text-size") {
		l, err := config.ParseLength(o.textSize)
		if err != nil {
			return config.Config{}, fmt.Errorf("--text-size: %w", err)
		}
		cfg.TextSize = l
	}
	if cmd.Flags().Changed("dpi") {
		cfg.DPI = o.dpi
	}
	return cfg, cfg.Validate()
}

// readTree 解析 DSL 文件得到盒子树。
func readTree(path string) (box.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开盒子树文件 %s: %w", path, err)
	}
	defer f.Close()
	root, err := dsl.ParseTree(f)
	if err != nil {
		return nil, fmt.Errorf("解析盒子树失败: %w", err)
	}
	return root, nil
}
