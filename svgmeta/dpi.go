// Package svgmeta injects out-of-band values into serialized SVG text.
//
// The edits are single-pass string operations, not an XML parser.
package svgmeta

import (
	"strconv"
	"strings"
)

const rootMarker = "<svg"

// AddDPI 在第一个 <svg 起始标签的 '>' 之前插入 data-dpi 属性。
// 找不到起始标签或标签没有闭合的 '>' 时原样返回。
// 同一份输出只能调用一次，重复调用会插入多个属性。
func AddDPI(svg string, dpi int) string {
	start := strings.Index(svg, rootMarker)
	if start < 0 {
		return svg
	}
	end := strings.IndexByte(svg[start:], '>')
	if end < 0 {
		return svg
	}
	pos := start + end
	attr := ` data-dpi="` + strconv.Itoa(dpi) + `"`
	var b strings.Builder
	b.Grow(len(svg) + len(attr))
	b.WriteString(svg[:pos])
	b.WriteString(attr)
	b.WriteString(svg[pos:])
	return b.String()
}
