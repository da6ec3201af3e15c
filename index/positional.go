package index

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
)

// PositionalIndex maps a normalized term to the documents containing it,
// recording every occurrence position. Postings are ordered by internal
// doc ID ascending; positions within an entry are strictly increasing.
type PositionalIndex struct {
	Mu       sync.RWMutex
	Index    map[string]PostingList
	Settings *config.IndexSettings // Reference to settings for this index
}

// gobPositionalIndexData is a helper struct for Gob encoding/decoding PositionalIndex data.
// It excludes the mutex.
type gobPositionalIndexData struct {
	Index    map[string]PostingList
	Settings *config.IndexSettings
}

// GobEncode implements the gob.GobEncoder interface for PositionalIndex.
func (pi *PositionalIndex) GobEncode() ([]byte, error) {
	pi.Mu.RLock() // Ensure consistent data during encoding
	defer pi.Mu.RUnlock()

	dataToEncode := gobPositionalIndexData{
		Index:    pi.Index,
		Settings: pi.Settings,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for PositionalIndex.
func (pi *PositionalIndex) GobDecode(data []byte) error {
	decodedData := gobPositionalIndexData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	pi.Mu.Lock() // Ensure exclusive access during decoding
	defer pi.Mu.Unlock()

	pi.Index = decodedData.Index
	pi.Settings = decodedData.Settings

	// Ensure maps are initialized if they were nil after decoding (e.g. from an empty file)
	if pi.Index == nil {
		pi.Index = make(map[string]PostingList)
	}

	// Settings can be nil if not present, no need to force initialize unless required by logic
	return nil
}
