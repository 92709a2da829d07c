package rowdb

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// PrintTree writes an indented dump of the whole tree, used by the
// .btree meta command and handy when debugging splits
func PrintTree(ctx context.Context, w io.Writer, t *Table) error {
	return printNode(ctx, w, t, t.RootPageIdx, 0)
}

func printNode(ctx context.Context, w io.Writer, t *Table, pageIdx uint32, depth int) error {
	aPage, err := t.pager.GetPage(ctx, pageIdx)
	if err != nil {
		return err
	}

	indent := strings.Repeat("  ", depth)

	if aPage.LeafNode != nil {
		fmt.Fprintf(w, "%s- leaf (size %d)\n", indent, aPage.LeafNode.Header.Cells)
		for _, key := range aPage.LeafNode.Keys() {
			fmt.Fprintf(w, "%s  - %d\n", indent, key)
		}
		return nil
	}

	fmt.Fprintf(w, "%s- internal (size %d)\n", indent, aPage.InternalNode.Header.KeysNum)
	for idx := 0; idx < int(aPage.InternalNode.Header.KeysNum); idx++ {
		if err := printNode(ctx, w, t, aPage.InternalNode.ICells[idx].Child, depth+1); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s- key %d\n", indent, aPage.InternalNode.ICells[idx].Key)
	}
	if aPage.InternalNode.Header.RightChild != RIGHT_CHILD_NOT_SET {
		if err := printNode(ctx, w, t, aPage.InternalNode.Header.RightChild, depth+1); err != nil {
			return err
		}
	}

	return nil
}
