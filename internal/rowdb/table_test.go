package rowdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	aTable, err := Open(context.Background(), zap.NewNop(), newMemoryFile(nil))
	require.NoError(t, err)
	return aTable
}

func TestTable_Seek_RootLeaf(t *testing.T) {
	t.Parallel()

	var (
		ctx       = context.Background()
		pagerMock = new(MockPager)
		aRootPage = newRootLeafPageWithCells(3)
		aTable    = NewTable(zap.NewNop(), pagerMock, 0)
	)
	pagerMock.On("GetPage", mock.Anything, uint32(0)).Return(aRootPage, nil)

	// Exact match
	aCursor, err := aTable.Seek(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), aCursor.PageIdx)
	assert.Equal(t, uint32(1), aCursor.CellIdx)

	// Insertion point in the middle would shift cell 1
	aRootPage.LeafNode.Cells[1].Key = 5
	aCursor, err = aTable.Seek(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), aCursor.CellIdx)

	// Key bigger than all existing keys
	aCursor, err = aTable.Seek(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), aCursor.CellIdx)

	pagerMock.AssertExpectations(t)
}

func TestTable_Seek_InternalRoot(t *testing.T) {
	t.Parallel()

	var (
		ctx       = context.Background()
		pagerMock = new(MockPager)
		aTable    = NewTable(zap.NewNop(), pagerMock, 2)
	)

	rootNode := NewInternalNode()
	rootNode.Header.IsRoot = true
	rootNode.Header.KeysNum = 1
	rootNode.ICells[0] = ICell{Key: 7, Child: 0}
	rootNode.Header.RightChild = 1
	aRootPage := &Page{Index: 2, InternalNode: rootNode}

	leftLeaf := newRootLeafPageWithCells(7)
	leftLeaf.LeafNode.Header.IsRoot = false
	rightPage := &Page{Index: 1, LeafNode: NewLeafNode()}
	rightPage.LeafNode.Cells[0].Key = 8
	rightPage.LeafNode.Header.Cells = 1

	pagerMock.On("GetPage", mock.Anything, uint32(2)).Return(aRootPage, nil)
	pagerMock.On("GetPage", mock.Anything, uint32(0)).Return(leftLeaf, nil)
	pagerMock.On("GetPage", mock.Anything, uint32(1)).Return(rightPage, nil)

	// Key within the left child's bound descends left
	aCursor, err := aTable.Seek(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), aCursor.PageIdx)
	assert.Equal(t, uint32(4), aCursor.CellIdx)

	// Key above the dividing key descends into the rightmost child
	aCursor, err = aTable.Seek(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), aCursor.PageIdx)
	assert.Equal(t, uint32(0), aCursor.CellIdx)
}

func TestTable_SeekFirst(t *testing.T) {
	t.Parallel()

	var (
		ctx       = context.Background()
		pagerMock = new(MockPager)
		aTable    = NewTable(zap.NewNop(), pagerMock, 0)
		aRootPage = newRootLeafPageWithCells(0)
	)
	pagerMock.On("GetPage", mock.Anything, uint32(0)).Return(aRootPage, nil)

	aCursor, err := aTable.SeekFirst(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), aCursor.PageIdx)
	assert.Equal(t, uint32(0), aCursor.CellIdx)
	assert.True(t, aCursor.EndOfTable)
}

func TestTable_GetMaxKey_RecursesIntoRightmostLeaf(t *testing.T) {
	t.Parallel()

	var (
		ctx       = context.Background()
		pagerMock = new(MockPager)
		aTable    = NewTable(zap.NewNop(), pagerMock, 2)
	)

	rootNode := NewInternalNode()
	rootNode.Header.KeysNum = 1
	// Routing key is stale on purpose, the true subtree max lives in the
	// rightmost leaf
	rootNode.ICells[0] = ICell{Key: 7, Child: 0}
	rootNode.Header.RightChild = 1
	aRootPage := &Page{Index: 2, InternalNode: rootNode}

	rightPage := &Page{Index: 1, LeafNode: NewLeafNode()}
	rightPage.LeafNode.Cells[0].Key = 8
	rightPage.LeafNode.Cells[1].Key = 42
	rightPage.LeafNode.Header.Cells = 2

	pagerMock.On("GetPage", mock.Anything, uint32(1)).Return(rightPage, nil)

	maxKey, err := aTable.GetMaxKey(ctx, aRootPage)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), maxKey)
}

func TestTable_CreateNewRoot_RelocatesRootPage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	aTable := newTestTable(t)

	// Fill the root leaf to capacity plus one to force a root split
	for i := 1; i <= LeafNodeMaxCells+1; i++ {
		require.NoError(t, aTable.Insert(ctx, gen.RowWithID(uint64(i))))
	}

	// Root moved off page 0 to a freshly allocated page
	assert.Equal(t, uint32(2), aTable.RootPageIdx)

	aRootPage, err := aTable.pager.GetPage(ctx, aTable.RootPageIdx)
	require.NoError(t, err)
	require.NotNil(t, aRootPage.InternalNode)
	assert.True(t, aRootPage.InternalNode.Header.IsRoot)
	assert.Equal(t, uint32(1), aRootPage.InternalNode.Header.KeysNum)

	// Dividing key equals the left sibling's max key
	leftPage, err := aTable.pager.GetPage(ctx, aRootPage.InternalNode.ICells[0].Child)
	require.NoError(t, err)
	leftMaxKey, ok := leftPage.GetMaxKey()
	require.True(t, ok)
	assert.Equal(t, leftMaxKey, aRootPage.InternalNode.ICells[0].Key)

	// Page 0 stays the leftmost leaf, no longer flagged as root
	assert.Equal(t, uint32(0), aRootPage.InternalNode.ICells[0].Child)
	assert.False(t, leftPage.LeafNode.Header.IsRoot)
	assert.Equal(t, aTable.RootPageIdx, leftPage.LeafNode.Header.Parent)

	// Both children are reachable and linked
	rightPage, err := aTable.pager.GetPage(ctx, aRootPage.InternalNode.Header.RightChild)
	require.NoError(t, err)
	require.NotNil(t, rightPage.LeafNode)
	assert.Equal(t, rightPage.Index, leftPage.LeafNode.Header.NextLeaf)
	assert.Equal(t, uint32(0), rightPage.LeafNode.Header.NextLeaf)
}
