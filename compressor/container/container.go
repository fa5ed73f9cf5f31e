// Package container frames an encoded payload so that it can be decoded without knowing
// how it was produced, and checked once it has been.
//
//	[0x43 0x54][version][codec][transform count][transform ids...]
//	[parameter count][codec parameters...]
//	[payload]
//	[xxhash64 of the original, little-endian][original size mod 2^32, little-endian]
package container

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
	"github.com/FitrahHaque/Compression-Toolkit/transform"
)

const (
	Version     = 1
	headerSize  = 6
	trailerSize = 12
)

var magic = [2]byte{'C', 'T'}

var (
	ErrHeader   = fmt.Errorf("%w: invalid container header", compressor.ErrFormat)
	ErrChecksum = errors.New("container: checksum did not match")
	ErrSize     = errors.New("container: size did not match")
)

type Header struct {
	Codec      byte
	Transforms transform.Chain
	// Params holds whatever the codec needs besides the payload to decode it.
	Params []byte
}

type Trailer struct {
	Digest uint64
	Size   uint32
}

func NewTrailer(original []byte) Trailer {
	return Trailer{Digest: xxhash.Sum64(original), Size: uint32(len(original))}
}

// Verify checks decoded against the digest and size recorded at compression time.
func (t Trailer) Verify(decoded []byte) error {
	if uint32(len(decoded)) != t.Size {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrSize, t.Size, uint32(len(decoded)))
	}
	if sum := xxhash.Sum64(decoded); sum != t.Digest {
		return fmt.Errorf("%w: expected %016x, got %016x", ErrChecksum, t.Digest, sum)
	}
	return nil
}

// Wrap frames payload, the encoding of original.
func Wrap(h Header, payload []byte, t Trailer) []byte {
	frame := make([]byte, 0, headerSize+len(h.Transforms)+len(h.Params)+len(payload)+trailerSize)
	frame = append(frame, magic[0], magic[1], Version, h.Codec, byte(len(h.Transforms)))
	for _, tr := range h.Transforms {
		frame = append(frame, byte(tr))
	}
	frame = append(frame, byte(len(h.Params)))
	frame = append(frame, h.Params...)
	frame = append(frame, payload...)
	frame = binary.LittleEndian.AppendUint64(frame, t.Digest)
	return binary.LittleEndian.AppendUint32(frame, t.Size)
}

// Unwrap splits a frame into its parts. The payload aliases frame.
func Unwrap(frame []byte) (Header, []byte, Trailer, error) {
	if len(frame) < headerSize+trailerSize {
		return Header{}, nil, Trailer{}, fmt.Errorf("%w: frame of %d bytes", ErrHeader, len(frame))
	}
	if frame[0] != magic[0] || frame[1] != magic[1] {
		return Header{}, nil, Trailer{}, fmt.Errorf("%w: bad magic %#x %#x", ErrHeader, frame[0], frame[1])
	}
	if frame[2] != Version {
		return Header{}, nil, Trailer{}, fmt.Errorf("%w: unsupported version %d", ErrHeader, frame[2])
	}
	h := Header{Codec: frame[3]}
	count := int(frame[4])
	if len(frame) < headerSize+count+trailerSize {
		return Header{}, nil, Trailer{}, fmt.Errorf("%w: frame too short for %d transforms", ErrHeader, count)
	}
	for _, id := range frame[5 : 5+count] {
		tr := transform.Transformation(id)
		if !tr.Valid() {
			return Header{}, nil, Trailer{}, fmt.Errorf("%w: unknown transform id %d", ErrHeader, id)
		}
		h.Transforms = append(h.Transforms, tr)
	}
	pos := 5 + count
	params := int(frame[pos])
	pos++
	if len(frame) < pos+params+trailerSize {
		return Header{}, nil, Trailer{}, fmt.Errorf("%w: frame too short for %d codec parameters", ErrHeader, params)
	}
	if params > 0 {
		h.Params = frame[pos : pos+params]
	}
	pos += params
	tail := frame[len(frame)-trailerSize:]
	t := Trailer{
		Digest: binary.LittleEndian.Uint64(tail[0:8]),
		Size:   binary.LittleEndian.Uint32(tail[8:12]),
	}
	return h, frame[pos : len(frame)-trailerSize], t, nil
}
