package rowdb

import (
	"bytes"
	"fmt"
)

// Row is the fixed three column record stored in leaf cells. Username and
// email occupy fixed size slots on the page, zero padded on the right.
type Row struct {
	ID       uint64
	Username string
	Email    string
}

func (r Row) Size() uint64 {
	return RowSize
}

func (r Row) Marshal(buf []byte) ([]byte, error) {
	size := r.Size()
	if uint64(cap(buf)) >= size {
		buf = buf[:size]
	} else {
		buf = make([]byte, size)
	}

	if len(r.Username) > UsernameSize {
		return nil, fmt.Errorf("username exceeds %d bytes", UsernameSize)
	}
	if len(r.Email) > EmailSize {
		return nil, fmt.Errorf("email exceeds %d bytes", EmailSize)
	}

	buf[0] = byte(r.ID >> 0)
	buf[1] = byte(r.ID >> 8)
	buf[2] = byte(r.ID >> 16)
	buf[3] = byte(r.ID >> 24)
	buf[4] = byte(r.ID >> 32)
	buf[5] = byte(r.ID >> 40)
	buf[6] = byte(r.ID >> 48)
	buf[7] = byte(r.ID >> 56)

	i := uint64(IDSize)
	for j := range buf[i : i+UsernameSize] {
		buf[i+uint64(j)] = 0
	}
	copy(buf[i:i+UsernameSize], r.Username)
	i += UsernameSize

	for j := range buf[i : i+EmailSize] {
		buf[i+uint64(j)] = 0
	}
	copy(buf[i:i+EmailSize], r.Email)
	i += EmailSize

	return buf[:i], nil
}

func UnmarshalRow(buf []byte, aRow *Row) error {
	if len(buf) < RowSize {
		return fmt.Errorf("row buffer too short: %d", len(buf))
	}

	aRow.ID = 0 |
		(uint64(buf[0]) << 0) |
		(uint64(buf[1]) << 8) |
		(uint64(buf[2]) << 16) |
		(uint64(buf[3]) << 24) |
		(uint64(buf[4]) << 32) |
		(uint64(buf[5]) << 40) |
		(uint64(buf[6]) << 48) |
		(uint64(buf[7]) << 56)

	i := IDSize
	aRow.Username = string(bytes.TrimRight(buf[i:i+UsernameSize], "\x00"))
	i += UsernameSize
	aRow.Email = string(bytes.TrimRight(buf[i:i+EmailSize], "\x00"))

	return nil
}

// Values returns row values in column order, used by drivers
// to render select results
func (r Row) Values() []any {
	return []any{r.ID, r.Username, r.Email}
}
