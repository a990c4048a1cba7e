package transport

import (
	"reflect"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// json is private to the transport. It matches encoding/json except that
// record identifiers, which servers send as numbers or strings, decode into
// string fields either way.
var json = newJSON()

func newJSON() jsoniter.API {
	api := jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(&idExtension{})
	return api
}

// idExtension swaps the decoder of string fields named "id" or "<x>_id".
type idExtension struct {
	jsoniter.DummyExtension
}

func (idExtension) UpdateStructDescriptor(desc *jsoniter.StructDescriptor) {
	for _, binding := range desc.Fields {
		if binding.Field.Type().Kind() != reflect.String {
			continue
		}
		for _, name := range binding.FromNames {
			if isIDName(name) {
				binding.Decoder = idDecoder{}
				break
			}
		}
	}
}

func isIDName(name string) bool {
	name = strings.ToLower(name)
	return name == "id" || strings.HasSuffix(name, "_id")
}

type idDecoder struct{}

func (idDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		*(*string)(ptr) = iter.ReadString()
	case jsoniter.NumberValue:
		*(*string)(ptr) = string(iter.ReadNumber())
	case jsoniter.NilValue:
		iter.ReadNil()
	default:
		iter.ReportError("decode id", "expect string or number")
	}
}
