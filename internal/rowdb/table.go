package rowdb

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

//go:generate mockery --name=Pager --structname=MockPager --inpackage --case=snake --testonly
type Pager interface {
	GetPage(context.Context, uint32) (*Page, error)
	TotalPages() uint32
	FlushAll(context.Context) error
}

// Table owns the pager and tracks the current root page number. The root
// page number is mutable state, every root split promotes a brand new
// internal root on a freshly allocated page.
type Table struct {
	Columns     []Column
	RootPageIdx uint32
	pager       Pager
	maxICells   uint32
	logger      *zap.Logger
}

func NewTable(logger *zap.Logger, pager Pager, rootPageIdx uint32) *Table {
	return &Table{
		Columns:     Columns(),
		RootPageIdx: rootPageIdx,
		pager:       pager,
		maxICells:   InternalNodeMaxCells,
		logger:      logger,
	}
}

// Open constructs the table over the given backing file, initialising the
// root page when the file is empty. It is the sole entry point building the
// core's owned state.
func Open(ctx context.Context, logger *zap.Logger, file DBFile) (*Table, error) {
	aPager, err := NewPager(file)
	if err != nil {
		return nil, err
	}
	rootPageIdx, err := aPager.RootPageIdx(ctx)
	if err != nil {
		return nil, err
	}
	return NewTable(logger, aPager, rootPageIdx), nil
}

// Close flushes every resident page back to the backing file. Must be called
// exactly once by the surrounding process lifecycle.
func (t *Table) Close(ctx context.Context) error {
	return t.pager.FlushAll(ctx)
}

// SeekFirst returns a cursor at the first cell of the leftmost leaf
func (t *Table) SeekFirst(ctx context.Context) (*Cursor, error) {
	pageIdx := t.RootPageIdx
	aPage, err := t.pager.GetPage(ctx, pageIdx)
	if err != nil {
		return nil, fmt.Errorf("seek first: %w", err)
	}
	for aPage.LeafNode == nil {
		pageIdx = aPage.InternalNode.ICells[0].Child
		aPage, err = t.pager.GetPage(ctx, pageIdx)
		if err != nil {
			return nil, fmt.Errorf("seek first: %w", err)
		}
	}
	return &Cursor{
		Table:      t,
		PageIdx:    pageIdx,
		CellIdx:    0,
		EndOfTable: aPage.LeafNode.Header.Cells == 0,
	}, nil
}

// Seek the cursor for a key, if it does not exist then return the cursor
// for the page and cell where it should be inserted
func (t *Table) Seek(ctx context.Context, key uint64) (*Cursor, error) {
	aRootPage, err := t.pager.GetPage(ctx, t.RootPageIdx)
	if err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	if aRootPage.LeafNode != nil {
		return t.leafNodeSeek(aRootPage, key)
	} else if aRootPage.InternalNode != nil {
		return t.internalNodeSeek(ctx, aRootPage, key)
	}
	return nil, fmt.Errorf("root page is neither leaf nor internal node")
}

func (t *Table) leafNodeSeek(aPage *Page, key uint64) (*Cursor, error) {
	var (
		minIdx uint32
		maxIdx = aPage.LeafNode.Header.Cells

		aCursor = Cursor{
			Table:   t,
			PageIdx: aPage.Index,
		}
	)

	// Binary search for the first cell whose key >= key
	for i := maxIdx; i != minIdx; {
		index := (minIdx + i) / 2
		keyIdx := aPage.LeafNode.Cells[index].Key
		if key == keyIdx {
			aCursor.CellIdx = index
			return &aCursor, nil
		}
		if key < keyIdx {
			i = index
		} else {
			minIdx = index + 1
		}
	}

	aCursor.CellIdx = minIdx

	return &aCursor, nil
}

func (t *Table) internalNodeSeek(ctx context.Context, aPage *Page, key uint64) (*Cursor, error) {
	childIdx := aPage.InternalNode.IndexOfChild(key)
	childPageIdx, err := aPage.InternalNode.Child(childIdx)
	if err != nil {
		return nil, err
	}

	aChildPage, err := t.pager.GetPage(ctx, childPageIdx)
	if err != nil {
		return nil, fmt.Errorf("internal node seek: %w", err)
	}

	if aChildPage.InternalNode != nil {
		return t.internalNodeSeek(ctx, aChildPage, key)
	}
	return t.leafNodeSeek(aChildPage, key)
}

// GetMaxKey returns the maximum key in the subtree rooted at the given page.
// For a leaf that is the key of its last cell, for an internal node recurse
// into the rightmost child.
func (t *Table) GetMaxKey(ctx context.Context, aPage *Page) (uint64, error) {
	if aPage.LeafNode != nil {
		if aPage.LeafNode.Header.Cells == 0 {
			return 0, fmt.Errorf("get max key: leaf node has no cells")
		}
		return aPage.LeafNode.Cells[aPage.LeafNode.Header.Cells-1].Key, nil
	}
	rightChild, err := t.pager.GetPage(ctx, aPage.InternalNode.Header.RightChild)
	if err != nil {
		return 0, err
	}
	return t.GetMaxKey(ctx, rightChild)
}

// CreateNewRoot handles a root split. The old root keeps its page number and
// becomes the left child, the right child page index is passed in, and the
// promoted internal root lands on a freshly allocated page which RootPageIdx
// is repointed to.
func (t *Table) CreateNewRoot(ctx context.Context, rightChildPageIdx uint32) (*Page, error) {
	oldRootPage, err := t.pager.GetPage(ctx, t.RootPageIdx)
	if err != nil {
		return nil, fmt.Errorf("create new root: %w", err)
	}

	rightChildPage, err := t.pager.GetPage(ctx, rightChildPageIdx)
	if err != nil {
		return nil, fmt.Errorf("create new root: %w", err)
	}

	leftChildMaxKey, err := t.GetMaxKey(ctx, oldRootPage)
	if err != nil {
		return nil, fmt.Errorf("create new root: %w", err)
	}

	newRootPageIdx := t.pager.TotalPages()
	newRootPage, err := t.pager.GetPage(ctx, newRootPageIdx)
	if err != nil {
		return nil, fmt.Errorf("create new root: %w", err)
	}

	t.logger.Sugar().With(
		"left_child_index", int(t.RootPageIdx),
		"right_child_index", int(rightChildPageIdx),
		"new_root_index", int(newRootPageIdx),
	).Debug("create new root")

	// New pages by default are leafs, reset the new root page
	// as an internal node
	newRootPage.InternalNode = NewInternalNode()
	newRootPage.LeafNode = nil

	newRootNode := newRootPage.InternalNode
	newRootNode.Header.IsRoot = true
	newRootNode.Header.KeysNum = 1
	newRootNode.ICells[0] = ICell{Key: leftChildMaxKey, Child: t.RootPageIdx}
	newRootNode.Header.RightChild = rightChildPageIdx

	oldRootPage.setRoot(false)
	oldRootPage.setParent(newRootPageIdx)
	rightChildPage.setParent(newRootPageIdx)

	t.RootPageIdx = newRootPageIdx

	return newRootPage, nil
}

// InternalNodeInsert adds a new child/key pair to parent that corresponds
// to child
func (t *Table) InternalNodeInsert(ctx context.Context, parentPageIdx, childPageIdx uint32) error {
	aParentPage, err := t.pager.GetPage(ctx, parentPageIdx)
	if err != nil {
		return fmt.Errorf("internal node insert: %w", err)
	}

	aChildPage, err := t.pager.GetPage(ctx, childPageIdx)
	if err != nil {
		return fmt.Errorf("internal node insert: %w", err)
	}
	aChildPage.setParent(parentPageIdx)

	childMaxKey, err := t.GetMaxKey(ctx, aChildPage)
	if err != nil {
		return fmt.Errorf("internal node insert: %w", err)
	}

	var (
		index            = aParentPage.InternalNode.IndexOfChild(childMaxKey)
		originalKeyCount = aParentPage.InternalNode.Header.KeysNum
	)

	if aParentPage.InternalNode.Header.KeysNum >= t.maxICells {
		return t.InternalNodeSplitInsert(ctx, parentPageIdx, childPageIdx)
	}

	// An internal node with a right child of RIGHT_CHILD_NOT_SET is empty
	if aParentPage.InternalNode.Header.RightChild == RIGHT_CHILD_NOT_SET {
		aParentPage.InternalNode.Header.RightChild = childPageIdx
		return nil
	}

	aParentPage.InternalNode.Header.KeysNum += 1

	rightChildPageIdx := aParentPage.InternalNode.Header.RightChild
	rightChildPage, err := t.pager.GetPage(ctx, rightChildPageIdx)
	if err != nil {
		return fmt.Errorf("internal node insert: %w", err)
	}

	rightChildMaxKey, err := t.GetMaxKey(ctx, rightChildPage)
	if err != nil {
		return fmt.Errorf("internal node insert: %w", err)
	}
	if childMaxKey > rightChildMaxKey {
		// Replace right child
		aParentPage.InternalNode.ICells[originalKeyCount] = ICell{
			Key:   rightChildMaxKey,
			Child: rightChildPageIdx,
		}
		aParentPage.InternalNode.Header.RightChild = childPageIdx
		return nil
	}

	// Make room for the new cell
	for i := originalKeyCount; i > index; i-- {
		aParentPage.InternalNode.ICells[i] = aParentPage.InternalNode.ICells[i-1]
	}
	aParentPage.InternalNode.ICells[index] = ICell{
		Key:   childMaxKey,
		Child: childPageIdx,
	}

	return nil
}

// InternalNodeSplitInsert splits a full internal node. First, create a
// sibling node and move the keys above the middle over to it. Second, update
// the original node's parent to reflect its new max key. Finally insert the
// child into whichever half should now contain it, this can cause the parent
// to split as well. If the original node is root, create a new root.
func (t *Table) InternalNodeSplitInsert(ctx context.Context, pageIdx, childPageIdx uint32) error {
	aSplitPage, err := t.pager.GetPage(ctx, pageIdx)
	if err != nil {
		return fmt.Errorf("internal node split insert: %w", err)
	}
	splittingRoot := aSplitPage.isRoot()
	oldMaxKey, err := t.GetMaxKey(ctx, aSplitPage)
	if err != nil {
		return fmt.Errorf("internal node split insert: %w", err)
	}

	childPage, err := t.pager.GetPage(ctx, childPageIdx)
	if err != nil {
		return fmt.Errorf("internal node split insert: %w", err)
	}
	childMaxKey, err := t.GetMaxKey(ctx, childPage)
	if err != nil {
		return fmt.Errorf("internal node split insert: %w", err)
	}

	// Create a new page, it will be on the same level as the original node
	// and to the right of it
	newPageIdx := t.pager.TotalPages()
	aNewPage, err := t.pager.GetPage(ctx, newPageIdx)
	if err != nil {
		return fmt.Errorf("internal node split insert: %w", err)
	}
	aNewPage.InternalNode = NewInternalNode()
	aNewPage.LeafNode = nil

	t.logger.Sugar().With(
		"page_index", int(pageIdx),
		"new_page_index", int(newPageIdx),
	).Debug("internal node split insert")

	if splittingRoot {
		// The split page keeps its page number and becomes the new root's
		// left child, the new page will end up on its right
		if _, err := t.CreateNewRoot(ctx, newPageIdx); err != nil {
			return err
		}
	}
	aNewPage.InternalNode.Header.Parent = aSplitPage.InternalNode.Header.Parent

	var maxCells = t.maxICells

	// First put the right child into the new node and set the right child
	// of the old node to an invalid page number
	aNewPage.InternalNode.Header.RightChild = aSplitPage.InternalNode.Header.RightChild
	newPageRightChild, err := t.pager.GetPage(ctx, aNewPage.InternalNode.Header.RightChild)
	if err != nil {
		return fmt.Errorf("internal node split insert: %w", err)
	}
	newPageRightChild.setParent(newPageIdx)
	aSplitPage.InternalNode.Header.RightChild = RIGHT_CHILD_NOT_SET

	// For each key until you get to the middle key, move the key and the
	// child to the new node
	for i := maxCells - 1; i > maxCells/2; i-- {
		if err := t.InternalNodeInsert(ctx, newPageIdx, aSplitPage.InternalNode.ICells[i].Child); err != nil {
			return fmt.Errorf("internal node split insert: %w", err)
		}
		aSplitPage.InternalNode.ICells[i] = ICell{}
		aSplitPage.InternalNode.Header.KeysNum -= 1
	}

	// Set child before middle key, which is now the highest key, to be the
	// node's right child, and decrement number of keys
	aSplitPage.InternalNode.Header.RightChild, _ = aSplitPage.InternalNode.Child(aSplitPage.InternalNode.Header.KeysNum - 1)
	aSplitPage.InternalNode.RemoveLastCell()

	maxAfterSplit, err := t.GetMaxKey(ctx, aSplitPage)
	if err != nil {
		return fmt.Errorf("internal node split insert: %w", err)
	}

	// Determine which of the two nodes after the split should contain the
	// child to be inserted, and insert the child
	if childMaxKey < maxAfterSplit {
		if err := t.InternalNodeInsert(ctx, pageIdx, childPageIdx); err != nil {
			return fmt.Errorf("internal node split insert: %w", err)
		}
		childPage.setParent(pageIdx)
	} else {
		if err := t.InternalNodeInsert(ctx, newPageIdx, childPageIdx); err != nil {
			return fmt.Errorf("internal node split insert: %w", err)
		}
		childPage.setParent(newPageIdx)
	}

	aParentPage, err := t.pager.GetPage(ctx, aSplitPage.InternalNode.Header.Parent)
	if err != nil {
		return fmt.Errorf("internal node split insert: %w", err)
	}
	oldChildIdx := aParentPage.InternalNode.IndexOfChild(oldMaxKey)
	if oldChildIdx < aParentPage.InternalNode.Header.KeysNum {
		aParentPage.InternalNode.ICells[oldChildIdx].Key = maxAfterSplit
	}

	if splittingRoot {
		return nil
	}

	return t.InternalNodeInsert(ctx, aSplitPage.InternalNode.Header.Parent, newPageIdx)
}
