package compressor

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

var ErrClosed = errors.New("compression stream already closed")

type writerCore struct {
	lock        sync.Mutex
	closed      bool
	c           Compressor
	inputBuffer bytes.Buffer
	w           io.Writer
}

// Writer collects everything written to it and encodes it as one buffer on Close.
type Writer struct {
	core *writerCore
}

func NewWriter(c Compressor, w io.Writer) *Writer {
	return &Writer{core: &writerCore{c: c, w: w}}
}

func (cw *Writer) Write(data []byte) (int, error) {
	cw.core.lock.Lock()
	defer cw.core.lock.Unlock()
	if cw.core.closed {
		return 0, ErrClosed
	}
	return cw.core.inputBuffer.Write(data)
}

func (cw *Writer) Close() error {
	cw.core.lock.Lock()
	defer cw.core.lock.Unlock()
	if cw.core.closed {
		return ErrClosed
	}
	cw.core.closed = true
	encoded, err := cw.core.c.Encode(cw.core.inputBuffer.Bytes())
	cw.core.inputBuffer.Reset()
	if err != nil {
		return err
	}
	_, err = cw.core.w.Write(encoded)
	return err
}

type readerCore struct {
	lock         sync.Mutex
	decoded      bool
	c            Compressor
	r            io.Reader
	outputBuffer bytes.Reader
}

// Reader decodes the whole of its source on the first Read and serves the result.
type Reader struct {
	core *readerCore
}

func NewReader(c Compressor, r io.Reader) *Reader {
	return &Reader{core: &readerCore{c: c, r: r}}
}

func (dr *Reader) Read(data []byte) (int, error) {
	dr.core.lock.Lock()
	defer dr.core.lock.Unlock()
	if !dr.core.decoded {
		compressed, err := io.ReadAll(dr.core.r)
		if err != nil {
			return 0, err
		}
		decoded, err := dr.core.c.Decode(compressed)
		if err != nil {
			return 0, err
		}
		dr.core.outputBuffer.Reset(decoded)
		dr.core.decoded = true
	}
	return dr.core.outputBuffer.Read(data)
}
