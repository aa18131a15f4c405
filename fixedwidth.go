// Package fixedwidth defines schemas for fixed-width text records and uses
// them to encode records to lines and decode lines back to records.
//
// A Schema is an ordered set of Fields. Each Field occupies an exact number
// of characters in a line and is padded with a pad character on one side.
// Schemas can be built field by field, from field-spec records, from tagged
// structs, or inferred from sample data.
//
// Lengths are measured in characters (Unicode code points), not bytes.
package fixedwidth

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Marshaler is the interface implemented by a value that can
// marshal itself into a fixed-width form.
//
// MarshalFixedWidth is provided the width of the field being
// encoded. If the returned value is longer than the width, the
// field reports a FieldOverflowError. If it is shorter, it will be
// padded.
type Marshaler interface {
	MarshalFixedWidth(width int) (data []byte, err error)
}

// Callback transforms a raw value before it is padded.
type Callback = func(value interface{}) interface{}

// Record is a single structured record: field keys mapped to values, in
// order.
type Record = orderedmap.OrderedMap[string, interface{}]

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return orderedmap.New[string, interface{}]()
}
