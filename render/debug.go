package render

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将关键字符统计输出为 JSON，便于调试缩放策略。
func WriteDebugJSON(stats Stats, path string) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
