package record

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryReceiptLinks issues receipt link GUIDs from process memory. The same
// document and export pair always yields the same GUID, so retried chunks
// reference identical receipt images.
type MemoryReceiptLinks struct {
	mutex sync.Mutex
	links map[linkKey]string
}

type linkKey struct {
	documentID string
	exportID   string
}

// NewMemoryReceiptLinks creates an empty receipt link store.
func NewMemoryReceiptLinks() *MemoryReceiptLinks {
	return &MemoryReceiptLinks{
		links: make(map[linkKey]string),
	}
}

// Link returns the GUID of the document within the export, creating one on
// first use.
func (m *MemoryReceiptLinks) Link(_ context.Context, documentID, exportID string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := linkKey{documentID: documentID, exportID: exportID}

	if link, ok := m.links[key]; ok {
		return link, nil
	}

	link, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	m.links[key] = link.String()

	return m.links[key], nil
}
