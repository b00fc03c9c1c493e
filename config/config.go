// Package config loads rendering parameters from TOML.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/texbridge/box"
)

// Config 描述一次渲染的参数。
type Config struct {
	DPI          int    `toml:"dpi"`
	TextSize     Length `toml:"text_size"`
	Foreground   string `toml:"foreground"`
	Format       string `toml:"format"`
	Envelope     bool   `toml:"envelope"`
	DebugOverlay bool   `toml:"debug_overlay"`
	Split        bool   `toml:"split"`
	FitContent   bool   `toml:"fit_content"`
}

// Default 返回默认配置：720 DPI、20px、黑色、SVG，画布高度随着墨区域扩展。
func Default() Config {
	return Config{
		DPI:        720,
		TextSize:   Length{Value: 20, Unit: UnitPX},
		Foreground: box.Black.String(),
		Format:     "svg",
		FitContent: true,
	}
}

// Load 读取 TOML 文件，未出现的键保留默认值。
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("无法打开配置文件 %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode 从 r 解析配置并校验。
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("解析配置失败: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("配置中存在未知字段: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查取值范围。
func (c Config) Validate() error {
	if c.DPI < 0 {
		return fmt.Errorf("dpi 不能为负: %d", c.DPI)
	}
	if c.TextSize.Value <= 0 {
		return fmt.Errorf("text_size 必须为正")
	}
	if _, err := c.Color(); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "svg", "pdf":
	default:
		return fmt.Errorf("不支持的输出格式 %q", c.Format)
	}
	if c.Envelope && strings.ToLower(c.Format) != "svg" {
		return fmt.Errorf("JSON 信封只支持 svg 格式")
	}
	return nil
}

// Color 解析前景色，空字符串表示未设置（透明）。
func (c Config) Color() (box.Color, error) {
	if strings.TrimSpace(c.Foreground) == "" {
		return box.Transparent, nil
	}
	return box.ParseColor(c.Foreground)
}

// TextSizePX 返回以像素计的字号。
func (c Config) TextSizePX() float64 {
	return c.TextSize.ToPX(c.DPI)
}
