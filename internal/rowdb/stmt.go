package rowdb

import (
	"context"
)

type StatementKind int

const (
	Insert StatementKind = iota + 1
	Select
)

// Statement is a typed command produced by the parsing layer,
// already validated before it reaches the core
type Statement struct {
	Kind StatementKind
	Row  Row // only used by insert statement
}

type StatementResult struct {
	Columns      []Column
	RowsAffected int
	// Rows streams select results lazily, returning ErrNoMoreRows after the
	// last one. The stream is forward only and cannot be restarted, run a
	// new select to scan again.
	Rows func(ctx context.Context) (Row, error)
}

func (t *Table) ExecuteStatement(ctx context.Context, stmt Statement) (StatementResult, error) {
	switch stmt.Kind {
	case Insert:
		if err := t.Insert(ctx, stmt.Row); err != nil {
			return StatementResult{}, err
		}
		return StatementResult{RowsAffected: 1}, nil
	case Select:
		return t.Select(ctx)
	}
	return StatementResult{}, errUnrecognizedStatementType
}
