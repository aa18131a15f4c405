package fixedwidth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// CreateFromArray infers a schema from sample records.
//
// Each record must be a *Record, a map[string]interface{} or a
// map[string]string. Every key becomes a field, in the order keys are first
// seen, with the length of its longest value. Go maps have no order, so the
// keys of a plain map are visited in sorted order. Inferred fields use the
// default padding; a key only ever seen with empty values gets length 1.
//
// A record of any other type is a *MalformedSampleDataError.
func CreateFromArray(records []interface{}) (*Schema, error) {
	inf := newInference()
	for i, record := range records {
		var err error
		switch r := record.(type) {
		case *Record:
			if r == nil {
				return nil, &MalformedSampleDataError{Index: i, Reason: "record is nil"}
			}
			for pair := r.Oldest(); pair != nil && err == nil; pair = pair.Next() {
				err = inf.observe(i, pair.Key, pair.Value)
			}
		case map[string]interface{}:
			for _, key := range sortedKeys(r) {
				if err = inf.observe(i, key, r[key]); err != nil {
					break
				}
			}
		case map[string]string:
			for _, key := range sortedKeys(r) {
				inf.observeString(key, r[key])
			}
		default:
			return nil, &MalformedSampleDataError{Index: i, Reason: fmt.Sprintf("record is %T, not a mapping", record)}
		}
		if err != nil {
			return nil, err
		}
	}
	return inf.schema()
}

// CreateFromRecords is like CreateFromArray for ordered records.
func CreateFromRecords(records []*Record) (*Schema, error) {
	samples := make([]interface{}, len(records))
	for i, r := range records {
		samples[i] = r
	}
	return CreateFromArray(samples)
}

// CreateFromJSON infers a schema from a JSON array of objects. Object key
// order is preserved.
//
// Values are measured by their string form: strings without quotes, null as
// the empty string, numbers and booleans as written, and nested arrays or
// objects as compact JSON text.
func CreateFromJSON(data []byte) (*Schema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &MalformedSampleDataError{Index: -1, Reason: "payload is not a JSON array"}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, &MalformedSampleDataError{Index: -1, Reason: "invalid JSON", Cause: err}
	}

	inf := newInference()
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, &MalformedSampleDataError{Index: i, Reason: "record is not a JSON object"}
		}
		obj := orderedmap.New[string, json.RawMessage]()
		if err := obj.UnmarshalJSON(elem); err != nil {
			return nil, &MalformedSampleDataError{Index: i, Reason: "invalid JSON object", Cause: err}
		}
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			if err := inf.observe(i, pair.Key, pair.Value); err != nil {
				return nil, err
			}
		}
	}
	return inf.schema()
}

// inference tracks the widest value seen for each key.
type inference struct {
	lengths *orderedmap.OrderedMap[string, int]
}

func newInference() *inference {
	return &inference{lengths: orderedmap.New[string, int]()}
}

func (inf *inference) observe(index int, key string, value interface{}) error {
	s, err := stringify(value)
	if err != nil {
		return &MalformedSampleDataError{Index: index, Reason: "field " + key, Cause: err}
	}
	inf.observeString(key, s)
	return nil
}

func (inf *inference) observeString(key, value string) {
	n := runeLen(value)
	if cur, ok := inf.lengths.Get(key); ok && cur >= n {
		return
	}
	inf.lengths.Set(key, n)
}

func (inf *inference) schema() (*Schema, error) {
	specs := make([]FieldSpec, 0, inf.lengths.Len())
	for pair := inf.lengths.Oldest(); pair != nil; pair = pair.Next() {
		length := pair.Value
		if length < 1 {
			length = 1
		}
		specs = append(specs, FieldSpec{Key: pair.Key, Length: length})
	}

	s := NewSchema().SetFields(specs)
	if err := s.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
