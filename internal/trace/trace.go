// trace.go - recorded command-stream format shared by gsviewer and gsreplay
//
// Grounded on memory_bus.go's simple tagged-record DMA chain (a byte
// opcode, a fixed header, then payload); generalized here into a tiny
// on-disk format so a captured GIF/register session can be replayed
// deterministically by either tool.
package trace

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
)

const magic = "GSTR"
const version = 1

// Op identifies one recorded event.
type Op byte

const (
	OpRegisterWrite Op = 0x01
	OpGIFPacket     Op = 0x02
	OpVSync         Op = 0x03
)

// Event is one decoded trace record.
type Event struct {
	Op       Op
	RegAddr  byte
	RegValue uint64
	GIFPath  int
	GIFData  []byte
}

var ErrBadMagic = errors.New("trace: not a gsxlate trace file")

// Writer appends events to an underlying stream in the shared format.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(magic); err != nil {
		return nil, err
	}
	if err := bw.WriteByte(version); err != nil {
		return nil, err
	}
	return &Writer{w: bw}, nil
}

func (w *Writer) WriteRegister(addr byte, value uint64) error {
	if err := w.w.WriteByte(byte(OpRegisterWrite)); err != nil {
		return err
	}
	if err := w.w.WriteByte(addr); err != nil {
		return err
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	_, err := w.w.Write(buf[:])
	return err
}

func (w *Writer) WriteGIFPacket(path int, data []byte) error {
	if err := w.w.WriteByte(byte(OpGIFPacket)); err != nil {
		return err
	}
	if err := w.w.WriteByte(byte(path)); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

func (w *Writer) WriteVSync() error {
	return w.w.WriteByte(byte(OpVSync))
}

func (w *Writer) Flush() error { return w.w.Flush() }

// Reader decodes events written by Writer.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	hdr := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, err
	}
	if string(hdr[:len(magic)]) != magic {
		return nil, ErrBadMagic
	}
	return &Reader{r: br}, nil
}

// Next decodes the following event, returning io.EOF once the stream
// is exhausted.
func (r *Reader) Next() (Event, error) {
	opByte, err := r.r.ReadByte()
	if err != nil {
		return Event{}, err
	}
	switch Op(opByte) {
	case OpRegisterWrite:
		addr, err := r.r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		var buf [8]byte
		if _, err := io.ReadFull(r.r, buf[:]); err != nil {
			return Event{}, err
		}
		return Event{Op: OpRegisterWrite, RegAddr: addr, RegValue: binary.LittleEndian.Uint64(buf[:])}, nil
	case OpGIFPacket:
		path, err := r.r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		var lenBuf [4]byte
		if _, err := io.ReadFull(r.r, lenBuf[:]); err != nil {
			return Event{}, err
		}
		n := binary.LittleEndian.Uint32(lenBuf[:])
		data := make([]byte, n)
		if _, err := io.ReadFull(r.r, data); err != nil {
			return Event{}, err
		}
		return Event{Op: OpGIFPacket, GIFPath: int(path), GIFData: data}, nil
	case OpVSync:
		return Event{Op: OpVSync}, nil
	default:
		return Event{}, errors.New("trace: unknown opcode")
	}
}
