package model

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrDiscriminatorMismatch = errors.New("account discriminator mismatch")
	ErrRecordTruncated       = errors.New("project record truncated")
	ErrSlotTooSmall          = errors.New("storage slot smaller than project record")
	ErrTextTooLong           = errors.New("text field exceeds u32 length prefix")
)

// ProjectDiscriminator prefixes every serialized Project.
var ProjectDiscriminator = Discriminator("account", "Project")

// Project is the durable record of a funding effort. Only State changes after creation.
type Project struct {
	ID              Pubkey       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	State           ProjectState `json:"state"`
	TokenMint       Pubkey       `json:"tokenMint"`
	Creator         Pubkey       `json:"creator"`
	TotalAllocation uint64       `json:"totalAllocation"`
	CreatedAt       int64        `json:"createdAt"`
}

// Space is the footprint of this record on the ledger.
func (p *Project) Space() int {
	return ProjectSpace(p.Name, p.Description)
}

func (p *Project) MarshalBinary() ([]byte, error) {
	buf := make([]byte, p.Space())
	if err := p.EncodeInto(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeInto writes the record at the start of a pre-allocated slot.
func (p *Project) EncodeInto(buf []byte) error {
	if uint64(len(p.Name)) > math.MaxUint32 || uint64(len(p.Description)) > math.MaxUint32 {
		return ErrTextTooLong
	}
	if !p.State.Valid() {
		return fmt.Errorf("encode project: unknown state %d", uint8(p.State))
	}
	if need := p.Space(); len(buf) < need {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrSlotTooSmall, need, len(buf))
	}

	var e Encoder
	e.Grow(p.Space())
	e.Bytes(ProjectDiscriminator[:])
	e.Pubkey(p.ID)
	e.String(p.Name)
	e.String(p.Description)
	e.U8(uint8(p.State))
	e.Pubkey(p.TokenMint)
	e.Pubkey(p.Creator)
	e.U64(p.TotalAllocation)
	e.I64(p.CreatedAt)
	copy(buf, e.Data())
	return nil
}

// UnmarshalBinary decodes a record; trailing bytes in the slot are ignored.
func (p *Project) UnmarshalBinary(data []byte) error {
	r := reader{buf: data}
	disc := r.bytes(DiscriminatorLength)
	if r.err != nil {
		return r.err
	}
	if [DiscriminatorLength]byte(disc) != ProjectDiscriminator {
		return ErrDiscriminatorMismatch
	}

	var out Project
	copy(out.ID[:], r.bytes(PubkeyLength))
	out.Name = r.string()
	out.Description = r.string()
	out.State = ProjectState(r.u8())
	copy(out.TokenMint[:], r.bytes(PubkeyLength))
	copy(out.Creator[:], r.bytes(PubkeyLength))
	out.TotalAllocation = r.u64()
	out.CreatedAt = int64(r.u64())
	if r.err != nil {
		return r.err
	}
	if !out.State.Valid() {
		return fmt.Errorf("decode project: unknown state tag %d", uint8(out.State))
	}
	*p = out
	return nil
}

// reader records the first short read and returns zero values afterwards.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	if len(r.buf)-r.off < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrRecordTruncated, n, r.off, len(r.buf)-r.off)
		return make([]byte, n)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8 {
	return r.bytes(1)[0]
}

func (r *reader) u32() uint32 {
	return binary.LittleEndian.Uint32(r.bytes(4))
}

func (r *reader) u64() uint64 {
	return binary.LittleEndian.Uint64(r.bytes(8))
}

func (r *reader) string() string {
	n := r.u32()
	if r.err != nil {
		return ""
	}
	if uint64(n) > uint64(len(r.buf)-r.off) {
		r.err = fmt.Errorf("%w: text length %d exceeds remaining %d bytes", ErrRecordTruncated, n, len(r.buf)-r.off)
		return ""
	}
	return string(r.bytes(int(n)))
}
