package container

import (
	"bytes"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
)

type writerCore struct {
	lock   sync.Mutex
	closed bool
	header Header
	c      compressor.Compressor
	w      io.Writer
	digest *xxhash.Digest
	size   uint32
	input  bytes.Buffer
}

// Writer hashes and buffers everything written to it. Close runs the transforms and
// the codec and writes the whole frame.
type Writer struct {
	core *writerCore
}

func NewWriter(w io.Writer, h Header, c compressor.Compressor) *Writer {
	return &Writer{core: &writerCore{header: h, c: c, w: w, digest: xxhash.New()}}
}

func (cw *Writer) Write(p []byte) (int, error) {
	cw.core.lock.Lock()
	defer cw.core.lock.Unlock()
	if cw.core.closed {
		return 0, compressor.ErrClosed
	}
	cw.core.digest.Write(p)
	cw.core.size += uint32(len(p))
	return cw.core.input.Write(p)
}

func (cw *Writer) Close() error {
	cw.core.lock.Lock()
	defer cw.core.lock.Unlock()
	if cw.core.closed {
		return compressor.ErrClosed
	}
	cw.core.closed = true
	transformed, err := cw.core.header.Transforms.EncodeData(cw.core.input.Bytes())
	if err != nil {
		return err
	}
	payload, err := cw.core.c.Encode(transformed)
	if err != nil {
		return err
	}
	trailer := Trailer{Digest: cw.core.digest.Sum64(), Size: cw.core.size}
	_, err = cw.core.w.Write(Wrap(cw.core.header, payload, trailer))
	return err
}

// Resolver returns the codec a frame header names.
type Resolver func(h Header) (compressor.Compressor, error)

type readerCore struct {
	lock    sync.Mutex
	decoded bool
	r       io.Reader
	resolve Resolver
	header  Header
	output  bytes.Reader
}

// Reader decodes and verifies a whole frame on the first Read.
type Reader struct {
	core *readerCore
}

func NewReader(r io.Reader, resolve Resolver) *Reader {
	return &Reader{core: &readerCore{r: r, resolve: resolve}}
}

// Header returns the frame header once the first Read has succeeded.
func (dr *Reader) Header() Header {
	dr.core.lock.Lock()
	defer dr.core.lock.Unlock()
	return dr.core.header
}

func (dr *Reader) Read(p []byte) (int, error) {
	dr.core.lock.Lock()
	defer dr.core.lock.Unlock()
	if !dr.core.decoded {
		frame, err := io.ReadAll(dr.core.r)
		if err != nil {
			return 0, err
		}
		decoded, header, err := Open(frame, dr.core.resolve)
		if err != nil {
			return 0, err
		}
		dr.core.header = header
		dr.core.output.Reset(decoded)
		dr.core.decoded = true
	}
	return dr.core.output.Read(p)
}

// Open unwraps frame, decodes its payload with the codec resolve picks, undoes the
// transforms and verifies the result against the trailer.
func Open(frame []byte, resolve Resolver) ([]byte, Header, error) {
	h, payload, trailer, err := Unwrap(frame)
	if err != nil {
		return nil, Header{}, err
	}
	c, err := resolve(h)
	if err != nil {
		return nil, Header{}, err
	}
	decoded, err := c.Decode(payload)
	if err != nil {
		return nil, Header{}, err
	}
	decoded, err = h.Transforms.DecodeData(decoded)
	if err != nil {
		return nil, Header{}, err
	}
	if err := trailer.Verify(decoded); err != nil {
		return nil, Header{}, err
	}
	return decoded, h, nil
}
