package rowdb

const (
	LeafNodeCellSize = 8 + RowSize
	// LeafNodeMaxCells is how many cells fit into one page after the leaf
	// header, reaching it on insert is the sole split trigger
	LeafNodeMaxCells = (PageSize - 14) / LeafNodeCellSize

	leafNodeRightSplitCount = (LeafNodeMaxCells + 1) / 2
	leafNodeLeftSplitCount  = LeafNodeMaxCells + 1 - leafNodeRightSplitCount
)

type LeafNodeHeader struct {
	Header
	Cells uint32
	// NextLeaf links leaves into a singly linked list in key order,
	// zero means this is the rightmost leaf
	NextLeaf uint32
}

func (h *LeafNodeHeader) Size() uint64 {
	return h.Header.Size() + 8
}

func (h *LeafNodeHeader) Marshal(buf []byte) ([]byte, error) {
	size := h.Size()
	if uint64(cap(buf)) >= size {
		buf = buf[:size]
	} else {
		buf = make([]byte, size)
	}

	i := uint64(0)

	hbuf, err := h.Header.Marshal(buf[i:])
	if err != nil {
		return nil, err
	}
	i += uint64(len(hbuf))

	buf[i+0] = byte(h.Cells >> 0)
	buf[i+1] = byte(h.Cells >> 8)
	buf[i+2] = byte(h.Cells >> 16)
	buf[i+3] = byte(h.Cells >> 24)

	buf[i+4] = byte(h.NextLeaf >> 0)
	buf[i+5] = byte(h.NextLeaf >> 8)
	buf[i+6] = byte(h.NextLeaf >> 16)
	buf[i+7] = byte(h.NextLeaf >> 24)

	return buf[:size], nil
}

func (h *LeafNodeHeader) Unmarshal(buf []byte) (uint64, error) {
	i := uint64(0)

	hi, err := h.Header.Unmarshal(buf[i:])
	if err != nil {
		return 0, err
	}
	i += hi

	h.Cells = 0 |
		(uint32(buf[i+0]) << 0) |
		(uint32(buf[i+1]) << 8) |
		(uint32(buf[i+2]) << 16) |
		(uint32(buf[i+3]) << 24)

	h.NextLeaf = 0 |
		(uint32(buf[i+4]) << 0) |
		(uint32(buf[i+5]) << 8) |
		(uint32(buf[i+6]) << 16) |
		(uint32(buf[i+7]) << 24)

	return h.Size(), nil
}

type Cell struct {
	Key   uint64
	Value [RowSize]byte
}

func (c *Cell) Size() uint64 {
	return LeafNodeCellSize
}

func (c *Cell) Marshal(buf []byte) ([]byte, error) {
	size := c.Size()
	if uint64(cap(buf)) >= size {
		buf = buf[:size]
	} else {
		buf = make([]byte, size)
	}

	buf[0] = byte(c.Key >> 0)
	buf[1] = byte(c.Key >> 8)
	buf[2] = byte(c.Key >> 16)
	buf[3] = byte(c.Key >> 24)
	buf[4] = byte(c.Key >> 32)
	buf[5] = byte(c.Key >> 40)
	buf[6] = byte(c.Key >> 48)
	buf[7] = byte(c.Key >> 56)
	i := uint64(8)

	copy(buf[i:], c.Value[:])
	i += RowSize

	return buf[:i], nil
}

func (c *Cell) Unmarshal(buf []byte) (uint64, error) {
	c.Key = 0 |
		(uint64(buf[0]) << 0) |
		(uint64(buf[1]) << 8) |
		(uint64(buf[2]) << 16) |
		(uint64(buf[3]) << 24) |
		(uint64(buf[4]) << 32) |
		(uint64(buf[5]) << 40) |
		(uint64(buf[6]) << 48) |
		(uint64(buf[7]) << 56)
	i := uint64(8)

	copy(c.Value[:], buf[i:i+RowSize])
	i += RowSize

	return i, nil
}

type LeafNode struct {
	Header LeafNodeHeader
	Cells  [LeafNodeMaxCells]Cell
}

func NewLeafNode() *LeafNode {
	return new(LeafNode)
}

func (n *LeafNode) Size() uint64 {
	size := n.Header.Size()
	for idx := range n.Cells {
		size += n.Cells[idx].Size()
	}
	return size
}

func (n *LeafNode) Marshal(buf []byte) ([]byte, error) {
	size := n.Size()
	if uint64(cap(buf)) >= size {
		buf = buf[:size]
	} else {
		buf = make([]byte, size)
	}

	i := uint64(0)

	hbuf, err := n.Header.Marshal(buf[i:])
	if err != nil {
		return nil, err
	}
	i += uint64(len(hbuf))

	for idx := range n.Cells {
		cbuf, err := n.Cells[idx].Marshal(buf[i:])
		if err != nil {
			return nil, err
		}
		i += uint64(len(cbuf))
	}

	return buf[:i], nil
}

func (n *LeafNode) Unmarshal(buf []byte) (uint64, error) {
	i := uint64(0)

	hi, err := n.Header.Unmarshal(buf[i:])
	if err != nil {
		return 0, err
	}
	i += hi

	for idx := 0; idx < int(n.Header.Cells); idx++ {
		ci, err := n.Cells[idx].Unmarshal(buf[i:])
		if err != nil {
			return 0, err
		}
		i += ci
	}

	return i, nil
}

// Keys lists keys of all occupied cells, handy in tests and tree dumps
func (n *LeafNode) Keys() []uint64 {
	keys := make([]uint64, 0, n.Header.Cells)
	for idx := 0; idx < int(n.Header.Cells); idx++ {
		keys = append(keys, n.Cells[idx].Key)
	}
	return keys
}
