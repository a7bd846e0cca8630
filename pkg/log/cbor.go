package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Decoder limits. A trace event is one flat map of at most seven integer
// keys, so anything deeper or wider is corruption, not data. The values are
// the smallest cbor/v2 accepts.
const (
	maxEventNesting  = 4
	maxEventPairs    = 16
	maxEventElements = 16
)

// traceEncMode encodes trace events with nanosecond timestamps and
// canonical key order, so identical transactions produce identical bytes.
var traceEncMode cbor.EncMode

// traceDecMode decodes trace events. Duplicate keys are rejected because a
// repeated register or value key would make the event ambiguous.
var traceDecMode cbor.DecMode

func init() {
	var err error

	traceEncMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR encoder mode: %v", err))
	}

	traceDecMode, err = cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IndefLength:      cbor.IndefLengthForbidden,
		MaxNestedLevels:  maxEventNesting,
		MaxMapPairs:      maxEventPairs,
		MaxArrayElements: maxEventElements,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes one event.
func EncodeEvent(event Event) ([]byte, error) {
	return traceEncMode.Marshal(event)
}

// DecodeEvent decodes one event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := traceDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns a stream encoder for trace files.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return traceEncMode.NewEncoder(w)
}

// NewDecoder returns a stream decoder for trace files.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return traceDecMode.NewDecoder(r)
}
