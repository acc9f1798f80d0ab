package frontend

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/nerrad567/gray-logic-core/internal/dispatch"
)

// SerialLine front-ends the command queue over any line-oriented
// io.Reader/io.Writer (spec.md §6: "Serial line prefixed by `hal/` or
// `wifi/`"). The physical UART binding is out of scope (spec.md §1);
// this only needs an io.ReadWriter, which in production wraps an
// opened serial device node and in tests can be an in-memory pipe. No
// serial port library appears anywhere in the retrieval pack, so this
// is deliberately built on bufio/io rather than a third-party driver
// (documented in DESIGN.md).
type SerialLine struct {
	r     *bufio.Scanner
	w     io.Writer
	wmu   sync.Mutex
	queue *dispatch.Queue
}

// NewSerialLine wraps rw as a line-oriented command front-end.
func NewSerialLine(rw io.ReadWriter, q *dispatch.Queue) *SerialLine {
	return &SerialLine{r: bufio.NewScanner(rw), w: rw, queue: q}
}

// Serve blocks reading lines and submitting each as a command until
// the underlying reader closes. A leading `hal/` or `wifi/` prefix is
// stripped before the line is submitted. It is a producer task (spec.md §5):
// it does no protected work beyond Queue.Submit, so it runs on its
// own goroutine rather than the loop's non-blocking pump step. reply
// is called back on the loop thread and only needs to be synchronised
// against concurrent writes from Serve's own goroutine.
func (s *SerialLine) Serve() {
	for s.r.Scan() {
		line := strings.TrimSpace(s.r.Text())
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "hal/"); ok {
			line = rest
		} else if rest, ok := strings.CutPrefix(line, "wifi/"); ok {
			line = rest
		}
		s.queue.Submit(line, s.reply)
	}
}

func (s *SerialLine) reply(resp string) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	io.WriteString(s.w, resp+"\n")
}
