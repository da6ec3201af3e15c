package index

import (
	"bytes"
	"encoding/gob"
	"sync"
)

// PhoneticIndex maps a soundex code to the vocabulary terms sharing it,
// sorted lexicographically. It is only populated for indexes created with
// the phonetic setting enabled.
type PhoneticIndex struct {
	Mu    sync.RWMutex
	Codes map[string][]string
}

// gobPhoneticIndexData is a helper struct for Gob encoding/decoding PhoneticIndex data.
// It excludes the mutex.
type gobPhoneticIndexData struct {
	Codes map[string][]string
}

// GobEncode implements the gob.GobEncoder interface for PhoneticIndex.
func (ph *PhoneticIndex) GobEncode() ([]byte, error) {
	ph.Mu.RLock() // Ensure consistent data during encoding
	defer ph.Mu.RUnlock()

	dataToEncode := gobPhoneticIndexData{
		Codes: ph.Codes,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for PhoneticIndex.
func (ph *PhoneticIndex) GobDecode(data []byte) error {
	decodedData := gobPhoneticIndexData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	ph.Mu.Lock() // Ensure exclusive access during decoding
	defer ph.Mu.Unlock()

	ph.Codes = decodedData.Codes

	if ph.Codes == nil {
		ph.Codes = make(map[string][]string)
	}

	return nil
}
