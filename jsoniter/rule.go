package jsoniter

import (
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// StringRule maps values of type T to and from a JSON string.
// The zero value of T is encoded as null and omitted under omitempty;
// null and "" both decode to the zero value.
type StringRule[T comparable] struct {
	jsoniter.DummyExtension

	Name   string
	Format func(T) string
	Parse  func(string) (T, error)
}

// CreateEncoder returns the rule's encoder for T and nil for any other type.
func (r *StringRule[T]) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if typ.Type1() != reflect.TypeFor[T]() {
		return nil
	}
	return &ruleEncoder[T]{rule: r}
}

// CreateDecoder returns the rule's decoder for T and nil for any other type.
func (r *StringRule[T]) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	if typ.Type1() != reflect.TypeFor[T]() {
		return nil
	}
	return &ruleDecoder[T]{rule: r}
}

type ruleEncoder[T comparable] struct {
	rule *StringRule[T]
}

func (e *ruleEncoder[T]) IsEmpty(ptr unsafe.Pointer) bool {
	var zero T
	return *(*T)(ptr) == zero
}

func (e *ruleEncoder[T]) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	if e.IsEmpty(ptr) {
		stream.WriteNil()
		return
	}
	stream.WriteString(e.rule.Format(*(*T)(ptr)))
}

type ruleDecoder[T comparable] struct {
	rule *StringRule[T]
}

func (d *ruleDecoder[T]) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	var zero T
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		*(*T)(ptr) = zero
	case jsoniter.StringValue:
		s := iter.ReadString()
		if s == "" {
			*(*T)(ptr) = zero
			return
		}
		v, err := d.rule.Parse(s)
		if err != nil {
			iter.ReportError("decode "+d.rule.Name, err.Error())
			return
		}
		*(*T)(ptr) = v
	default:
		iter.ReportError("decode "+d.rule.Name, "expects a string or null")
	}
}
