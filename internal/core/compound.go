package core

import "strings"

// Separator used for fields that can hold multiple elements, and the
// separator between an element's key and value.
const (
	elementSeparator = "|"
	valueSeparator   = "="
)

// KeyValue is one element of a keyed compound field. HasValue
// distinguishes "k=" (empty value) from a bare "k".
type KeyValue struct {
	Key      string
	Value    string
	HasValue bool
}

// DecodeList splits a compound field into its elements. Elements are
// trimmed and blank ones dropped, so "A|B|" decodes to ["A" "B"] and an
// empty input decodes to nil.
func DecodeList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var elements []string
	for _, element := range strings.Split(raw, elementSeparator) {
		element = strings.TrimSpace(element)
		if element == "" {
			continue
		}
		elements = append(elements, element)
	}
	return elements
}

// DecodeKeyedList decodes a compound field whose elements carry an
// optional value, like tags and macros. Each element splits on the first
// value separator only; everything after it belongs to the value.
func DecodeKeyedList(raw string) []KeyValue {
	var pairs []KeyValue
	for _, element := range DecodeList(raw) {
		parts := strings.SplitN(element, valueSeparator, 2)
		pair := KeyValue{Key: parts[0]}
		if len(parts) == 2 {
			pair.Value = parts[1]
			pair.HasValue = true
		}
		pairs = append(pairs, pair)
	}
	return pairs
}
