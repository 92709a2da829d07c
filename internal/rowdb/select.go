package rowdb

import (
	"context"
)

// Select returns a result whose Rows closure streams the whole table in
// ascending key order by walking the leaf linked list
func (t *Table) Select(ctx context.Context) (StatementResult, error) {
	aCursor, err := t.SeekFirst(ctx)
	if err != nil {
		return StatementResult{}, err
	}

	aResult := StatementResult{
		Columns: t.Columns,
		Rows: func(ctx context.Context) (Row, error) {
			if aCursor.EndOfTable {
				return Row{}, ErrNoMoreRows
			}
			return aCursor.fetchRow(ctx)
		},
	}

	return aResult, nil
}
