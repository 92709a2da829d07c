package rowdb

type Page struct {
	Index        uint32
	InternalNode *InternalNode
	LeafNode     *LeafNode
}

// GetMaxKey returns the biggest key stored directly in the node. For an
// internal node this is a routing key, use Table.GetMaxKey for the true
// maximum of the whole subtree.
func (p *Page) GetMaxKey() (uint64, bool) {
	if p.InternalNode != nil {
		if p.InternalNode.Header.KeysNum == 0 {
			return 0, false
		}
		return p.InternalNode.ICells[p.InternalNode.Header.KeysNum-1].Key, true
	}

	// Empty leaf node, no keys yet
	if p.LeafNode.Header.Cells == 0 {
		return 0, false
	}

	return p.LeafNode.Cells[p.LeafNode.Header.Cells-1].Key, true
}

func (p *Page) setParent(parentIdx uint32) {
	if p.LeafNode != nil {
		p.LeafNode.Header.Parent = parentIdx
	}
	if p.InternalNode != nil {
		p.InternalNode.Header.Parent = parentIdx
	}
}

func (p *Page) isRoot() bool {
	if p.LeafNode != nil {
		return p.LeafNode.Header.IsRoot
	}
	if p.InternalNode != nil {
		return p.InternalNode.Header.IsRoot
	}
	return false
}

func (p *Page) setRoot(isRoot bool) {
	if p.LeafNode != nil {
		p.LeafNode.Header.IsRoot = isRoot
	}
	if p.InternalNode != nil {
		p.InternalNode.Header.IsRoot = isRoot
	}
}
