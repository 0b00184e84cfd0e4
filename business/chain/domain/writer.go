package domain

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Writer encodes values in the layout Reader decodes. It builds call
// arguments for EncodeCall and canned node responses.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) WriteU8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) WriteU32(v uint32) *Writer {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
	return w
}

func (w *Writer) WriteU64(v uint64) *Writer {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
	return w
}

// WriteU256 writes v as 32 big-endian bytes. v must be non-negative and fit.
func (w *Writer) WriteU256(v *big.Int) *Writer {
	var b [U256Size]byte
	v.FillBytes(b[:])
	w.buf = append(w.buf, b[:]...)
	return w
}

func (w *Writer) WriteAddress(a common.Hash) *Writer {
	w.buf = append(w.buf, a.Bytes()...)
	return w
}

func (w *Writer) WriteString(s string) *Writer {
	w.WriteU32(uint32(len(s)))
	w.buf = append(w.buf, s...)
	return w
}
