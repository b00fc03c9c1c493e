package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/texbridge/render"
)

// metricsReport 在关键字符统计之外附带像素尺寸与换算比例。
type metricsReport struct {
	render.Stats
	Pixels render.Metrics `json:"pixels"`
	Ratio  float64        `json:"native_to_pixel_ratio"`
}

func newMetricsCmd() *cobra.Command {
	var opts commonOpts

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print key character statistics of a box tree as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			root, err := readTree(opts.input)
			if err != nil {
				return err
			}
			h, err := newHandle(root, cfg)
			if err != nil {
				return err
			}
			defer destroyHandle(loggerFromContext(cmd.Context()), h)

			stats, err := h.Stats()
			if err != nil {
				return err
			}
			px, err := h.Metrics()
			if err != nil {
				return err
			}
			report := metricsReport{
				Stats:  stats,
				Pixels: px,
				Ratio:  render.NativeToPixelRatio(stats.BoxTreeHeight, px.Height),
			}
			loggerFromContext(cmd.Context()).Debug("统计完成", "chars", stats.Count, "ratio", report.Ratio)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("输出统计失败: %w", err)
			}
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}
