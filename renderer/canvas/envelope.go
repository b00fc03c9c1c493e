package canvasrenderer

import (
	"strconv"

	"github.com/ByLCY/texbridge/render"
)

const hexDigits = "0123456789abcdef"

// AppendEnvelope 追加固定形状的 JSON：
//
//	{"svg":"<escaped>","metrics":{"width":W,"height":H,"depth":D,"ascent":A}}
//
// 只服务这一种形状，不是通用编码器。m.Height 为总高度，m.Ascent 为基线以上高度。
func AppendEnvelope(dst []byte, svg string, m render.Metrics) []byte {
	dst = append(dst, `{"svg":"`...)
	dst = appendEscaped(dst, svg)
	dst = append(dst, `","metrics":{"width":`...)
	dst = strconv.AppendInt(dst, int64(m.Width), 10)
	dst = append(dst, `,"height":`...)
	dst = strconv.AppendInt(dst, int64(m.Height), 10)
	dst = append(dst, `,"depth":`...)
	dst = strconv.AppendInt(dst, int64(m.Depth), 10)
	dst = append(dst, `,"ascent":`...)
	dst = strconv.AppendInt(dst, int64(m.Ascent), 10)
	return append(dst, "}}"...)
}

// appendEscaped 转义反斜杠、双引号、换行与回车；其余控制字符写成 \u00XX，
// 其他字节原样输出（矢量文本为合法 UTF-8）。
func appendEscaped(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			dst = append(dst, '\\', '\\')
		case '"':
			dst = append(dst, '\\', '"')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		default:
			if c < 0x20 {
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
				continue
			}
			dst = append(dst, c)
		}
	}
	return dst
}
