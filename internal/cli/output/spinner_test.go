package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewSpinner(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Loading")

	if s.message != "Loading" {
		t.Errorf("message = %q, want Loading", s.message)
	}
	if len(s.frames) == 0 {
		t.Error("frames should not be empty")
	}
}

func TestSpinner_StartStop(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Processing")
	s.interval = 10 * time.Millisecond

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Processing") {
		t.Errorf("output = %q, want the message", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("output = %q, want a cleared line at the end", out)
	}
}

func TestSpinner_Success(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Uploading")

	s.Start()
	s.Success("Uploaded")

	if !strings.HasSuffix(buf.String(), "✓ Uploaded\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSpinner_Fail(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Uploading")

	s.Start()
	s.Fail("Upload failed")

	if !strings.HasSuffix(buf.String(), "✗ Upload failed\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSpinner_StopTwice(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Loading")

	s.Start()
	s.Stop()
	s.Stop()
	s.Start() // no restart after stop

	time.Sleep(20 * time.Millisecond)
	if n := strings.Count(buf.String(), "\033[K"); n != 1 {
		t.Errorf("line cleared %d times, want 1", n)
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Loading")

	s.Stop()
	if buf.String() != "\r\033[K" {
		t.Errorf("output = %q", buf.String())
	}
}
