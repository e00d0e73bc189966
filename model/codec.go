package model

import "encoding/binary"

// Encoder appends little-endian, length-prefixed values in ledger layout order.
type Encoder struct {
	buf []byte
}

func (e *Encoder) Grow(n int) {
	if cap(e.buf)-len(e.buf) < n {
		grown := make([]byte, len(e.buf), len(e.buf)+n)
		copy(grown, e.buf)
		e.buf = grown
	}
}

func (e *Encoder) Bytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *Encoder) Pubkey(k Pubkey) {
	e.buf = append(e.buf, k[:]...)
}

func (e *Encoder) U8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) U64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *Encoder) I64(v int64) {
	e.U64(uint64(v))
}

// String writes a u32 byte length followed by the UTF-8 bytes.
func (e *Encoder) String(s string) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *Encoder) Data() []byte {
	return e.buf
}
