package index

import (
	"bytes"
	"encoding/gob"
	"sync"
)

// Biword is an ordered pair of adjacent normalized terms. Adjacency is
// measured after stop-word removal, so "quick fox" is a biword of
// "quick the fox" under the default stop-word list.
type Biword struct {
	First  string
	Second string
}

// BiwordIndex maps each ordered adjacent term pair to the documents where it
// occurs, sorted by internal doc ID ascending. Two-term phrase queries are
// answered from this structure alone.
type BiwordIndex struct {
	Mu    sync.RWMutex
	Pairs map[Biword][]uint32
}

// gobBiwordIndexData is a helper struct for Gob encoding/decoding BiwordIndex data.
// It excludes the mutex.
type gobBiwordIndexData struct {
	Pairs map[Biword][]uint32
}

// GobEncode implements the gob.GobEncoder interface for BiwordIndex.
func (bi *BiwordIndex) GobEncode() ([]byte, error) {
	bi.Mu.RLock() // Ensure consistent data during encoding
	defer bi.Mu.RUnlock()

	dataToEncode := gobBiwordIndexData{
		Pairs: bi.Pairs,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for BiwordIndex.
func (bi *BiwordIndex) GobDecode(data []byte) error {
	decodedData := gobBiwordIndexData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	bi.Mu.Lock() // Ensure exclusive access during decoding
	defer bi.Mu.Unlock()

	bi.Pairs = decodedData.Pairs

	if bi.Pairs == nil {
		bi.Pairs = make(map[Biword][]uint32)
	}

	return nil
}
