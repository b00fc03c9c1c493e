package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/texbridge/box"
	"github.com/ByLCY/texbridge/render"
)

func TestDestroyHandleLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.DebugLevel)
	h, err := render.New(&box.Leaf{Width: 1}, 10)
	if err != nil {
		t.Fatalf("render.New error: %v", err)
	}

	destroyHandle(logger, h)
	if buf.Len() != 0 {
		t.Fatalf("first destroy should be silent, got %q", buf.String())
	}

	destroyHandle(logger, h)
	out := buf.String()
	if !strings.Contains(out, "销毁句柄失败") || !strings.Contains(out, render.ErrDestroyed.Error()) {
		t.Fatalf("second destroy should log the error, got %q", out)
	}
}
