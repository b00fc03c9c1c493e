package config

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used for text sizes in configuration.

// Unit represents the original unit of a length value as written by the user.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, read as pixels
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPX               // pixels at the configured DPI
)

// Conversion constants between pt, mm and in.
const (
	PtToMm   = 0.352777
	MmToPt   = 1.0 / PtToMm
	PtPerIn  = 72.0
	MmPerIn  = 25.4
	BaseDPI  = 72
	maxValue = 1e6
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPX:
		return "px"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// String 以原单位输出，例如 "20pt"。
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ToPT converts to points. dpi 用于 px 与无单位数值；dpi <= 0 时按 72 处理（1px = 1pt）。
func (l Length) ToPT(dpi int) float64 {
	if dpi <= 0 {
		dpi = BaseDPI
	}
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * PtPerIn
	case UnitPT:
		return l.Value
	default:
		return l.Value * PtPerIn / float64(dpi)
	}
}

// ToPX converts to pixels at dpi：px = pt * dpi / 72。
func (l Length) ToPX(dpi int) float64 {
	if dpi <= 0 {
		dpi = BaseDPI
	}
	if l.Unit == UnitPX || l.Unit == UnitNone {
		return l.Value
	}
	return l.ToPT(dpi) * float64(dpi) / PtPerIn
}

// ToMM converts to millimeters.
func (l Length) ToMM(dpi int) float64 { return l.ToPT(dpi) * PtToMm }

// ParseLength parses a length string preserving its unit.
func ParseLength(value string) (Length, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	lower := strings.ToLower(v)
	unit := UnitNone
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f <= 0 || f > maxValue {
		return Length{}, fmt.Errorf("长度 %q 超出范围", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// UnmarshalText 让 Length 可以直接写在 TOML 字符串里。
func (l *Length) UnmarshalText(text []byte) error {
	parsed, err := ParseLength(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalTOML 额外接受裸数字（按像素处理），例如 text_size = 20。
func (l *Length) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		return l.UnmarshalText([]byte(x))
	case int64:
		return l.fromNumber(float64(x))
	case float64:
		return l.fromNumber(x)
	default:
		return fmt.Errorf("长度类型不支持: %T", v)
	}
}

func (l *Length) fromNumber(f float64) error {
	if f <= 0 || f > maxValue {
		return fmt.Errorf("长度 %g 超出范围", f)
	}
	*l = Length{Value: f, Unit: UnitNone}
	return nil
}

// MarshalText 与 UnmarshalText 对应。
func (l Length) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
