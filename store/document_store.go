package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// DocumentStore is the source of truth for a single index: it keeps the raw
// documents and the mapping from external doc IDs to the dense internal IDs
// used in posting lists. Index rebuilds read from here.
type DocumentStore struct {
	Mu                     sync.RWMutex
	Docs                   map[uint32]model.Document // Internal ID to full document
	ExternalIDtoInternalID map[string]uint32         // User-provided ID to internal uint32 ID
	NextID                 uint32
}

// gobDocumentStoreData is a helper struct for Gob encoding/decoding DocumentStore data.
// It excludes the mutex.
type gobDocumentStoreData struct {
	Docs                   map[uint32]model.Document
	ExternalIDtoInternalID map[string]uint32
	NextID                 uint32
}

// GobEncode implements the gob.GobEncoder interface for DocumentStore.
func (ds *DocumentStore) GobEncode() ([]byte, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	dataToEncode := gobDocumentStoreData{
		Docs:                   ds.Docs,
		ExternalIDtoInternalID: ds.ExternalIDtoInternalID,
		NextID:                 ds.NextID,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode document store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for DocumentStore.
func (ds *DocumentStore) GobDecode(data []byte) error {
	decodedData := gobDocumentStoreData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode document store data: %w", err)
	}

	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	ds.Docs = decodedData.Docs
	ds.ExternalIDtoInternalID = decodedData.ExternalIDtoInternalID
	ds.NextID = decodedData.NextID

	// Ensure maps are initialized if they were nil after decoding
	if ds.Docs == nil {
		ds.Docs = make(map[uint32]model.Document)
	}
	if ds.ExternalIDtoInternalID == nil {
		ds.ExternalIDtoInternalID = make(map[string]uint32)
	}

	return nil
}
