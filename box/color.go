package box

import (
	"fmt"
	"strconv"
	"strings"
)

// Color 为打包的 ARGB 颜色（0xAARRGGBB）。
type Color uint32

const (
	// Transparent 表示“未设置”。任何 alpha 为 0 的颜色都视为透明。
	Transparent Color = 0x00000000
	Black       Color = 0xff000000
	White       Color = 0xffffffff
)

// ARGB 由四个分量组装颜色。
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// IsTransparent 报告 alpha 是否为 0。
func (c Color) IsTransparent() bool { return c.A() == 0 }

// String 以 #AARRGGBB 形式输出。
func (c Color) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// ParseColor 解析 #RGB、#RRGGBB、#AARRGGBB（# 可省略，也接受 0x 前缀）。
// 不带 alpha 的写法视为不透明。
func ParseColor(s string) (Color, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "#")
	v = strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
	switch len(v) {
	case 3:
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
		fallthrough
	case 6:
		n, err := strconv.ParseUint(v, 16, 32)
		if err != nil {
			return Transparent, fmt.Errorf("无法解析颜色 %q: %w", s, err)
		}
		return Color(0xff000000 | uint32(n)), nil
	case 8:
		n, err := strconv.ParseUint(v, 16, 32)
		if err != nil {
			return Transparent, fmt.Errorf("无法解析颜色 %q: %w", s, err)
		}
		return Color(n), nil
	default:
		return Transparent, fmt.Errorf("无法解析颜色 %q: 长度应为 3、6 或 8 位十六进制", s)
	}
}
