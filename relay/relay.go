package relay

import (
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultBufferSize is the per-direction copy buffer.
const DefaultBufferSize = 32 * 1024

var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, DefaultBufferSize)
	},
}

// Result carries the per-direction byte counters of one finished
// relay. Upload is client to target, download the reverse.
type Result struct {
	Upload   int64
	Download int64
}

type closeWriter interface {
	CloseWrite() error
}

// Splice copies bytes between the two streams in both directions until
// either side reaches EOF or errors. When one direction finishes, the
// opposite write side is half-closed to propagate the EOF across the
// tunnel, and the other direction is left to drain. When the stream
// cannot half-close, both read deadlines are set to now instead, which
// stops the other direction as well. Both streams are closed before
// returning.
func Splice(client, target net.Conn) (*Result, error) {
	res := &Result{}
	var g errgroup.Group

	g.Go(func() error {
		n, err := copyDirection(target, client)
		res.Upload = n
		return err
	})
	g.Go(func() error {
		n, err := copyDirection(client, target)
		res.Download = n
		return err
	})

	err := g.Wait()
	client.Close()
	target.Close()

	return res, err
}

func copyDirection(dst, src net.Conn) (int64, error) {
	buf := bufferPool.Get().([]byte)
	n, err := io.CopyBuffer(dst, src, buf)
	bufferPool.Put(buf) //lint:ignore SA6002 fixed-size slices

	// propagate EOF to the other end; when the transport cannot
	// half-close, unblock the sibling read instead
	if cw, ok := dst.(closeWriter); ok {
		cw.CloseWrite()
	} else {
		src.SetReadDeadline(time.Now())
		dst.SetReadDeadline(time.Now())
	}

	if isClosedError(err) {
		err = nil
	}
	return n, err
}

func isClosedError(err error) bool {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE)
}
