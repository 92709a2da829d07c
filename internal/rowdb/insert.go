package rowdb

import (
	"context"
	"fmt"
)

// Insert stores a row keyed by its ID. Inserting an existing key fails with
// ErrDuplicateKey and mutates nothing, there is no in-place update.
func (t *Table) Insert(ctx context.Context, aRow Row) error {
	key := aRow.ID

	aCursor, err := t.Seek(ctx, key)
	if err != nil {
		return err
	}

	aPage, err := t.pager.GetPage(ctx, aCursor.PageIdx)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if aPage.LeafNode == nil {
		return fmt.Errorf("trying to insert into non leaf node")
	}

	if aCursor.CellIdx < aPage.LeafNode.Header.Cells {
		if aPage.LeafNode.Cells[aCursor.CellIdx].Key == key {
			return fmt.Errorf("%w: %d", ErrDuplicateKey, key)
		}
	}

	t.logger.Sugar().With(
		"page_index", int(aCursor.PageIdx),
		"cell_index", int(aCursor.CellIdx),
		"key", int(key),
	).Debug("inserting row")

	return aCursor.LeafNodeInsert(ctx, key, &aRow)
}
