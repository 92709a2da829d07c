package rowdb

import (
	"context"
	"fmt"
	"io"
)

type DBFile interface {
	io.Seeker
	io.ReaderAt
	io.WriterAt
}

type pagerImpl struct {
	totalPages uint32 // total number of pages

	pages []*Page

	file DBFile
}

// NewPager opens the backing file and computes the page count from its
// length. All pages stay resident once loaded, there is no eviction, which
// bounds the database size to TableMaxPages.
func NewPager(file DBFile) (*pagerImpl, error) {
	aPager := &pagerImpl{
		file:  file,
		pages: make([]*Page, TableMaxPages),
	}

	fileSize, err := aPager.file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}

	if fileSize%PageSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptFile, fileSize)
	}

	totalPages := fileSize / PageSize
	if totalPages > TableMaxPages {
		return nil, fmt.Errorf("%w: file contains %d pages", ErrPageOutOfBounds, totalPages)
	}
	aPager.totalPages = uint32(totalPages)

	return aPager, nil
}

func (p *pagerImpl) TotalPages() uint32 {
	return p.totalPages
}

func (p *pagerImpl) GetPage(ctx context.Context, pageIdx uint32) (*Page, error) {
	if pageIdx >= TableMaxPages {
		return nil, fmt.Errorf("%w: page index %d, limit %d", ErrPageOutOfBounds, pageIdx, TableMaxPages)
	}

	if aPage := p.pages[pageIdx]; aPage != nil {
		return aPage, nil
	}

	if pageIdx > p.totalPages {
		return nil, fmt.Errorf("cannot skip index when getting page, index: %d, number of pages: %d", pageIdx, p.totalPages)
	}

	// Requesting a brand new page, allocate a zeroed leaf without disk I/O
	if pageIdx == p.totalPages {
		p.pages[pageIdx] = &Page{Index: pageIdx, LeafNode: NewLeafNode()}
		p.totalPages = pageIdx + 1
		return p.pages[pageIdx], nil
	}

	// Page exists on disk, load it from the file
	buf := make([]byte, PageSize)
	if _, err := p.file.ReadAt(buf, int64(pageIdx)*PageSize); err != nil {
		return nil, err
	}

	// First byte is the node type tag
	if buf[0] == 0 {
		leaf := NewLeafNode()
		if _, err := leaf.Unmarshal(buf); err != nil {
			return nil, err
		}
		p.pages[pageIdx] = &Page{Index: pageIdx, LeafNode: leaf}
	} else {
		internal := NewInternalNode()
		if _, err := internal.Unmarshal(buf); err != nil {
			return nil, err
		}
		p.pages[pageIdx] = &Page{Index: pageIdx, InternalNode: internal}
	}

	return p.pages[pageIdx], nil
}

// FlushAll writes every resident page back to the file. It is meant to be
// called exactly once at controlled shutdown, an abrupt termination loses
// all in-memory mutations.
func (p *pagerImpl) FlushAll(ctx context.Context) error {
	buf := make([]byte, PageSize)
	for pageIdx := uint32(0); pageIdx < p.totalPages; pageIdx++ {
		aPage := p.pages[pageIdx]
		if aPage == nil {
			continue
		}
		if err := marshalPage(aPage, buf); err != nil {
			return err
		}
		if _, err := p.file.WriteAt(buf, int64(pageIdx)*PageSize); err != nil {
			return fmt.Errorf("flush page %d: %w", pageIdx, err)
		}
	}
	return nil
}

// RootPageIdx locates the page currently flagged as root. The root starts
// out at page 0 but moves to a freshly allocated page on every root split,
// so reopening a file means scanning page headers for the root flag.
func (p *pagerImpl) RootPageIdx(ctx context.Context) (uint32, error) {
	// Zero length file, initialise page 0 as an empty leaf root
	if p.totalPages == 0 {
		aPage, err := p.GetPage(ctx, 0)
		if err != nil {
			return 0, err
		}
		aPage.LeafNode.Header.IsRoot = true
		return 0, nil
	}

	hdr := make([]byte, 6)
	for pageIdx := uint32(0); pageIdx < p.totalPages; pageIdx++ {
		if _, err := p.file.ReadAt(hdr, int64(pageIdx)*PageSize); err != nil {
			return 0, err
		}
		if hdr[1] == 1 {
			return pageIdx, nil
		}
	}

	return 0, fmt.Errorf("%w: no root page found", ErrCorruptFile)
}

func marshalPage(aPage *Page, buf []byte) error {
	for i := range buf {
		buf[i] = 0
	}
	if aPage.LeafNode != nil {
		_, err := aPage.LeafNode.Marshal(buf)
		return err
	}
	if aPage.InternalNode != nil {
		_, err := aPage.InternalNode.Marshal(buf)
		return err
	}
	return fmt.Errorf("error flushing, page %d is neither internal nor leaf node", aPage.Index)
}
