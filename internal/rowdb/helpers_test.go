package rowdb

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var gen = NewDataGen(time.Now().Unix())

type DataGen struct {
	*gofakeit.Faker
}

func NewDataGen(seed int64) *DataGen {
	return &DataGen{
		Faker: gofakeit.New(seed),
	}
}

func (g *DataGen) Row() Row {
	return Row{
		ID:       uint64(g.IntRange(1, 1<<31)),
		Username: g.Username(),
		Email:    g.Email(),
	}
}

func (g *DataGen) RowWithID(id uint64) Row {
	aRow := g.Row()
	aRow.ID = id
	return aRow
}

// memoryFile is an in-memory DBFile so tests can exercise the pager
// without touching disk
type memoryFile struct {
	data []byte
}

var (
	_ DBFile = (*memoryFile)(nil)
	_ DBFile = (*os.File)(nil)
)

func newMemoryFile(data []byte) *memoryFile {
	return &memoryFile{data: data}
}

func (f *memoryFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		return offset, nil
	case io.SeekEnd:
		return int64(len(f.data)) + offset, nil
	}
	return 0, fmt.Errorf("unsupported whence %d", whence)
}

func (f *memoryFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *memoryFile) WriteAt(p []byte, off int64) (int, error) {
	if grow := off + int64(len(p)) - int64(len(f.data)); grow > 0 {
		f.data = append(f.data, make([]byte, grow)...)
	}
	copy(f.data[off:], p)
	return len(p), nil
}

// newRootLeafPageWithCells builds a root leaf page with cells keyed 1..n
func newRootLeafPageWithCells(n int) *Page {
	leaf := NewLeafNode()
	leaf.Header.IsRoot = true
	for i := 0; i < n; i++ {
		key := uint64(i + 1)
		aRow := gen.RowWithID(key)
		if err := saveToCell(&leaf.Cells[i], key, &aRow); err != nil {
			panic(err)
		}
	}
	leaf.Header.Cells = uint32(n)
	return &Page{Index: 0, LeafNode: leaf}
}
