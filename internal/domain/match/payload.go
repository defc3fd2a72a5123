package match

import (
	"bytes"
	"encoding/json"
	"fmt"

	sonic "github.com/bytedance/sonic"
)

// PayloadShape tags how an upstream match list was delivered.
type PayloadShape int

const (
	// ShapeMalformed is neither an array nor an envelope holding one. It is
	// recovered as an empty list.
	ShapeMalformed PayloadShape = iota
	// ShapeSequence is a bare JSON array.
	ShapeSequence
	// ShapeEnvelope is an object whose "value" field is an array.
	ShapeEnvelope
)

func (s PayloadShape) String() string {
	switch s {
	case ShapeSequence:
		return "sequence"
	case ShapeEnvelope:
		return "envelope"
	default:
		return "malformed"
	}
}

// MatchList is the parsed form of a matches payload.
type MatchList struct {
	Shape PayloadShape
	Items []RawMatch
	// Skipped counts array elements that were not decodable match objects.
	Skipped int
}

type matchEnvelope struct {
	Value json.RawMessage `json:"value"`
}

// ParseMatchList sniffs the payload shape and decodes the records. Only
// invalid JSON is an error; a valid document of the wrong shape yields an
// empty ShapeMalformed list.
func ParseMatchList(raw []byte) (MatchList, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return MatchList{}, fmt.Errorf("decode match list: empty payload")
	}

	switch trimmed[0] {
	case '[':
		items, skipped, err := decodeMatchArray(trimmed)
		if err != nil {
			return MatchList{}, err
		}
		return MatchList{Shape: ShapeSequence, Items: items, Skipped: skipped}, nil
	case '{':
		var envelope matchEnvelope
		if err := sonic.Unmarshal(trimmed, &envelope); err != nil {
			return MatchList{}, fmt.Errorf("decode match envelope: %w", err)
		}
		value := bytes.TrimSpace(envelope.Value)
		if len(value) == 0 || value[0] != '[' {
			return MatchList{Shape: ShapeMalformed, Items: []RawMatch{}}, nil
		}
		items, skipped, err := decodeMatchArray(value)
		if err != nil {
			return MatchList{}, err
		}
		return MatchList{Shape: ShapeEnvelope, Items: items, Skipped: skipped}, nil
	default:
		var doc any
		if err := sonic.Unmarshal(trimmed, &doc); err != nil {
			return MatchList{}, fmt.Errorf("decode match list: %w", err)
		}
		return MatchList{Shape: ShapeMalformed, Items: []RawMatch{}}, nil
	}
}

func decodeMatchArray(raw []byte) ([]RawMatch, int, error) {
	var elements []json.RawMessage
	if err := sonic.Unmarshal(raw, &elements); err != nil {
		return nil, 0, fmt.Errorf("decode match array: %w", err)
	}

	out := make([]RawMatch, 0, len(elements))
	skipped := 0
	for _, element := range elements {
		element = bytes.TrimSpace(element)
		if len(element) == 0 || element[0] != '{' {
			skipped++
			continue
		}
		var item RawMatch
		if err := sonic.Unmarshal(element, (*rawMatchFields)(&item)); err != nil {
			skipped++
			continue
		}
		item.raw = append([]byte(nil), element...)
		out = append(out, item)
	}
	return out, skipped, nil
}
