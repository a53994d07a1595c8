package render

import (
	"bytes"
	"testing"
	"time"
)

func TestFill(t *testing.T) {
	var out bytes.Buffer
	r := &DefaultRenderer{Out: &out}
	r.Fill(3, 12, "x")
	r.flush()
	if out.String() != "\033[3;12Hx" {
		t.Log("out", out.String())
		t.Fail()
	}
}

func TestDecorations(t *testing.T) {
	var out bytes.Buffer
	r := &DefaultRenderer{Out: &out}
	r.AddDecoration(1, 2, "ab", 1)
	r.tickDecorations()
	if len(r.decorations) != 1 {
		t.Fatal("decoration removed early")
	}
	r.flush()
	out.Reset()
	r.tickDecorations()
	r.flush()
	if len(r.decorations) != 0 || out.String() != "\033[2;1H  " {
		t.Log("decorations", len(r.decorations), "out", out.String())
		t.Fail()
	}
}

func TestRenderLoop(t *testing.T) {
	var out bytes.Buffer
	r := &DefaultRenderer{Out: &out}
	frames := 0
	var first time.Duration
	r.RenderLoop(time.Hour, time.Microsecond, func(duration time.Duration) bool {
		if frames == 0 {
			first = duration
		}
		frames++
		r.Fill(1, 1, "f")
		return frames < 3
	})
	if frames != 3 || first > -59*time.Minute {
		t.Log("frames", frames, "first", first)
		t.Fail()
	}
	if bytes.Count(out.Bytes(), []byte("f")) != 3 {
		t.Log("out", out.String())
		t.Fail()
	}
}
