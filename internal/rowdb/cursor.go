package rowdb

import (
	"context"
	"fmt"
)

// Cursor is a transient traversal handle, it is invalidated by any
// structural mutation that moves the cell it references. Callers must not
// reuse a cursor across a mutating operation.
type Cursor struct {
	Table      *Table
	PageIdx    uint32
	CellIdx    uint32
	EndOfTable bool
}

func (c *Cursor) LeafNodeInsert(ctx context.Context, key uint64, aRow *Row) error {
	aPage, err := c.Table.pager.GetPage(ctx, c.PageIdx)
	if err != nil {
		return err
	}
	if aPage.LeafNode == nil {
		return fmt.Errorf("error inserting row to a non leaf node, key %d", key)
	}

	cells := aPage.LeafNode.Header.Cells
	if cells >= LeafNodeMaxCells {
		// Split leaf node
		return c.LeafNodeSplitInsert(ctx, key, aRow)
	}

	if c.CellIdx < cells {
		// Need to make room for the new cell
		for i := cells; i > c.CellIdx; i-- {
			aPage.LeafNode.Cells[i] = aPage.LeafNode.Cells[i-1]
		}
	}

	if err := saveToCell(&aPage.LeafNode.Cells[c.CellIdx], key, aRow); err != nil {
		return err
	}
	aPage.LeafNode.Header.Cells += 1

	return nil
}

// LeafNodeSplitInsert creates a new leaf and redistributes the existing
// cells plus the new one evenly between the original (left) and new (right)
// leaf. The leaf linked list is relinked, and either a new root is created
// or the new right sibling is inserted into the parent.
func (c *Cursor) LeafNodeSplitInsert(ctx context.Context, key uint64, aRow *Row) error {
	aPager := c.Table.pager

	aSplitPage, err := aPager.GetPage(ctx, c.PageIdx)
	if err != nil {
		return err
	}

	originalMaxKey, _ := aSplitPage.GetMaxKey()
	newPageIdx := aPager.TotalPages()

	c.Table.logger.Sugar().With(
		"key", int(key),
		"old_max_key", int(originalMaxKey),
		"new_page_index", int(newPageIdx),
	).Debug("leaf node split insert")

	// Append new page at the end, fresh pages are empty leafs
	aNewPage, err := aPager.GetPage(ctx, newPageIdx)
	if err != nil {
		return err
	}

	aNewPage.LeafNode.Header.Parent = aSplitPage.LeafNode.Header.Parent

	aNewPage.LeafNode.Header.NextLeaf = aSplitPage.LeafNode.Header.NextLeaf
	aSplitPage.LeafNode.Header.NextLeaf = newPageIdx

	// All existing keys plus the new key are divided evenly between the old
	// (left) and new (right) nodes. Starting from the right, move each key
	// to its correct position.
	for i := uint32(LeafNodeMaxCells); ; i-- {
		var (
			destPage = aSplitPage // left
			isLeft   = i < leafNodeLeftSplitCount
		)
		if !isLeft {
			destPage = aNewPage // right
		}
		cellIdx := i % leafNodeLeftSplitCount
		destCell := &destPage.LeafNode.Cells[cellIdx]

		if i == c.CellIdx {
			if err := saveToCell(destCell, key, aRow); err != nil {
				return err
			}
		} else if i > c.CellIdx {
			*destCell = aSplitPage.LeafNode.Cells[i-1]
		} else {
			*destCell = aSplitPage.LeafNode.Cells[i]
		}

		if i == 0 {
			break
		}
	}

	// Update cell count on both leaf nodes
	aSplitPage.LeafNode.Header.Cells = leafNodeLeftSplitCount
	aNewPage.LeafNode.Header.Cells = leafNodeRightSplitCount

	if aSplitPage.isRoot() {
		_, err := c.Table.CreateNewRoot(ctx, newPageIdx)
		return err
	}

	parentPageIdx := aSplitPage.LeafNode.Header.Parent
	aParentPage, err := aPager.GetPage(ctx, parentPageIdx)
	if err != nil {
		return err
	}

	// Update the parent's routing key for the split page to reflect its new
	// max key, unless the split page was the parent's rightmost child
	oldChildIdx := aParentPage.InternalNode.IndexOfChild(originalMaxKey)
	if oldChildIdx < aParentPage.InternalNode.Header.KeysNum {
		oldPageNewMaxKey, _ := aSplitPage.GetMaxKey()
		aParentPage.InternalNode.ICells[oldChildIdx].Key = oldPageNewMaxKey
	}

	return c.Table.InternalNodeInsert(ctx, parentPageIdx, newPageIdx)
}

// fetchRow decodes the row under the cursor and advances it, either to the
// next cell, or across the next leaf pointer, or to end of table
func (c *Cursor) fetchRow(ctx context.Context) (Row, error) {
	aPage, err := c.Table.pager.GetPage(ctx, c.PageIdx)
	if err != nil {
		return Row{}, err
	}
	if aPage.LeafNode == nil {
		return Row{}, fmt.Errorf("error fetching row from a non leaf node")
	}

	var aRow Row
	if err := UnmarshalRow(aPage.LeafNode.Cells[c.CellIdx].Value[:], &aRow); err != nil {
		return Row{}, err
	}

	// There are still more cells in the page, move cursor to the next cell
	if c.CellIdx < aPage.LeafNode.Header.Cells-1 {
		c.CellIdx += 1
		return aRow, nil
	}

	// If there is no leaf page to the right, set end of table flag
	if aPage.LeafNode.Header.NextLeaf == 0 {
		c.EndOfTable = true
		return aRow, nil
	}

	// Otherwise move the cursor to the next leaf page
	c.PageIdx = aPage.LeafNode.Header.NextLeaf
	c.CellIdx = 0

	return aRow, nil
}

func saveToCell(cell *Cell, key uint64, aRow *Row) error {
	rowBuf, err := aRow.Marshal(nil)
	if err != nil {
		return err
	}
	cell.Key = key
	copy(cell.Value[:], rowBuf)
	return nil
}
