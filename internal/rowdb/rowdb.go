package rowdb

import (
	"errors"
	"fmt"
)

const (
	// PageSize is the unit of disk I/O and caching, 4 kilobytes
	PageSize = 4096
	// TableMaxPages bounds the page cache, there is no eviction
	TableMaxPages = 1024
)

const (
	IDSize       = 8
	UsernameSize = 32
	EmailSize    = 255
	// RowSize is the fixed on-page size of a serialised row
	RowSize = IDSize + UsernameSize + EmailSize
)

var (
	// ErrCorruptFile means the backing file length is not a multiple of the page size
	ErrCorruptFile = errors.New("db file size is not divisible by page size")
	// ErrPageOutOfBounds means a page index beyond the fixed page table capacity was requested
	ErrPageOutOfBounds = errors.New("page index exceeds max pages limit")
	// ErrDuplicateKey is returned by Insert when the key already exists,
	// nothing is mutated in that case
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNoMoreRows signals the end of a select row stream
	ErrNoMoreRows = errors.New("no more rows")

	errUnrecognizedStatementType = fmt.Errorf("unrecognised statement type")
)

type ColumnKind int

const (
	Int8 ColumnKind = iota + 1
	Varchar
)

type Column struct {
	Kind ColumnKind
	Size int
	Name string
}

// Columns describes the fixed three column schema, used by drivers
// to render select results
func Columns() []Column {
	return []Column{
		{
			Kind: Int8,
			Size: IDSize,
			Name: "id",
		},
		{
			Kind: Varchar,
			Size: UsernameSize,
			Name: "username",
		},
		{
			Kind: Varchar,
			Size: EmailSize,
			Name: "email",
		},
	}
}
