// File: stream/frame.go
// Package stream: length-prefixed frame scanner over the speculative read
// protocol.
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// Frame layout: u32 payload length | payload | u32 CRC-32 (IEEE) of the
// payload, all big-endian. Payload size is capped to keep a corrupt length
// field from demanding gigabytes.

package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/velesov/ringstream/api"
)

// MaxFramePayload caps a single frame's payload.
const MaxFramePayload = 1 << 20 // 1 MiB

const (
	frameHeaderSize  = 4
	frameTrailerSize = 4
)

// ErrNeedMore reports that the buffered bytes do not yet hold a complete
// frame. Nothing was consumed; feed the ring and call Next again.
var ErrNeedMore = errors.New("stream: incomplete frame buffered")

// ErrCorruptFrame reports a failed checksum or an implausible length field.
// The scanner has already advanced one byte to hunt for the next frame
// boundary.
var ErrCorruptFrame = errors.New("stream: corrupt frame")

// WriteFrame encodes payload as one frame into w.
func WriteFrame(w io.Writer, payload []byte) (int, error) {
	if len(payload) > MaxFramePayload {
		return 0, fmt.Errorf("stream: payload %d exceeds frame cap %d", len(payload), MaxFramePayload)
	}
	buf := make([]byte, frameHeaderSize+len(payload)+frameTrailerSize)
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[frameHeaderSize:], payload)
	binary.BigEndian.PutUint32(buf[frameHeaderSize+len(payload):], crc32.ChecksumIEEE(payload))
	return w.Write(buf)
}

// Scanner extracts frames from the consumer side of a ring. It is the
// canonical client of the ring's speculative protocol: the header is peeked
// without cursor motion, the candidate frame is consumed under a mark, and
// the consumption is committed only after the checksum verifies. A frame
// that fails verification is rolled back and the scan position advances a
// single byte, so a corrupted stream resynchronizes on the next valid
// boundary instead of dying.
//
// Single goroutine use, the same goroutine that owns the ring's consumer
// side.
type Scanner struct {
	ring    api.Ring
	hdr     [frameHeaderSize]byte
	trl     [frameTrailerSize]byte
	frames  uint64
	resyncs uint64
}

// NewScanner creates a scanner over the ring's consumer side.
func NewScanner(ring api.Ring) *Scanner {
	return &Scanner{ring: ring}
}

// Next extracts the next complete frame's payload.
//
// Returns ErrNeedMore when the buffered bytes end mid-frame (no state
// disturbed) and ErrCorruptFrame after a checksum or length-field failure
// (scan position advanced one byte). The returned slice is freshly
// allocated and owned by the caller.
func (s *Scanner) Next() ([]byte, error) {
	if _, err := s.ring.Peek(s.hdr[:]); err != nil {
		return nil, ErrNeedMore
	}
	length := binary.BigEndian.Uint32(s.hdr[:])
	// A frame larger than the ring could never complete; such a length
	// field is a misaligned read, not a frame boundary. Hunt forward.
	limit := MaxFramePayload
	if c := s.ring.Capacity() - frameHeaderSize - frameTrailerSize; c < limit {
		limit = c
	}
	if limit < 0 || int64(length) > int64(limit) {
		return nil, s.resync()
	}

	s.ring.SaveMark()
	if _, err := s.ring.Skip(frameHeaderSize); err != nil {
		return nil, s.abort(err)
	}
	payload := make([]byte, length)
	if _, err := s.ring.Peek(payload); err != nil {
		return nil, s.abort(err)
	}
	if _, err := s.ring.Skip(int(length)); err != nil {
		return nil, s.abort(err)
	}
	if _, err := s.ring.Peek(s.trl[:]); err != nil {
		return nil, s.abort(err)
	}
	if _, err := s.ring.Skip(frameTrailerSize); err != nil {
		return nil, s.abort(err)
	}

	if binary.BigEndian.Uint32(s.trl[:]) != crc32.ChecksumIEEE(payload) {
		if err := s.ring.Restore(); err != nil {
			return nil, err
		}
		return nil, s.resync()
	}

	s.ring.ClearMark()
	s.frames++
	return payload, nil
}

// abort rolls the mark back after a mid-frame shortfall and translates it
// to ErrNeedMore.
func (s *Scanner) abort(cause error) error {
	if err := s.ring.Restore(); err != nil {
		return err
	}
	if errors.Is(cause, api.ErrInsufficientData) {
		return ErrNeedMore
	}
	return cause
}

// resync abandons the current scan position by one byte.
func (s *Scanner) resync() error {
	if _, err := s.ring.Skip(1); err != nil {
		return err
	}
	s.resyncs++
	return ErrCorruptFrame
}

// Frames returns the count of frames successfully extracted.
func (s *Scanner) Frames() uint64 { return s.frames }

// Resyncs returns the count of one-byte corruption hunts performed.
func (s *Scanner) Resyncs() uint64 { return s.resyncs }
