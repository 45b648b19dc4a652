package board

import (
	"bytes"
	"encoding/gob"
)

// boardWire has Board's fields without its methods.
type boardWire Board

func (b *Board) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode((*boardWire)(b)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores a board. gob drops pointers to zero values, so a
// revealed tile with a zero count comes back without one.
func (b *Board) GobDecode(data []byte) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode((*boardWire)(b)); err != nil {
		return err
	}
	for _, t := range b.Tiles {
		if t.Revealed && t.AdjacencyCount == nil {
			t.SetCount(0)
		}
	}
	return nil
}
