package domain

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/optrack/internal/apperror"
)

// U256Size is the encoded size of a u256 and of an address.
const U256Size = 32

// Reader decodes big-endian call results.
type Reader struct {
	buf []byte
	off int
}

// NewReader reads from b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) next(n int, what string) ([]byte, error) {
	if r.Remaining() < n {
		return nil, apperror.New(apperror.CodeInvalidCallResult,
			apperror.WithContext(fmt.Sprintf("%s: need %d bytes at offset %d, have %d", what, n, r.off, r.Remaining())))
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.next(1, "u8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.next(4, "u32")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.next(8, "u64")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadU256 reads an unsigned 256-bit integer.
func (r *Reader) ReadU256() (*big.Int, error) {
	b, err := r.next(U256Size, "u256")
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// ReadAddress reads a 32-byte contract address.
func (r *Reader) ReadAddress() (common.Hash, error) {
	b, err := r.next(U256Size, "address")
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(b), nil
}

// ReadString reads a u32 length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := r.next(int(n), "string")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
