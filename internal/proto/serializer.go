package proto

import (
	"errors"
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"
)

type Type byte

const (
	SimpleString Type = '+'
	Error        Type = '-'
	Integer      Type = ':'
	BulkString   Type = '$'
	Array        Type = '*'
)

var ErrInvalidType = errors.New("invalid reply type")

type Value struct {
	Type  Type
	Str   string
	Int   int64
	Array []Value
	Null  bool
}

type Serializer struct {
	writer io.Writer
}

func NewSerializer(w io.Writer) *Serializer {
	return &Serializer{writer: w}
}

// Serialize builds the whole frame in a pooled buffer so each reply hits
// the connection in a single write.
func (s *Serializer) Serialize(v Value) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := appendValue(buf, v); err != nil {
		return err
	}

	_, err := s.writer.Write(buf.B)
	return err
}

func appendValue(buf *bytebufferpool.ByteBuffer, v Value) error {
	switch v.Type {
	case SimpleString:
		fmt.Fprintf(buf, "+%s\r\n", v.Str)
	case Error:
		fmt.Fprintf(buf, "-%s\r\n", v.Str)
	case Integer:
		fmt.Fprintf(buf, ":%d\r\n", v.Int)
	case BulkString:
		if v.Null {
			buf.WriteString("$-1\r\n")
		} else {
			fmt.Fprintf(buf, "$%d\r\n%s\r\n", len(v.Str), v.Str)
		}
	case Array:
		if v.Null {
			buf.WriteString("*-1\r\n")
			return nil
		}
		fmt.Fprintf(buf, "*%d\r\n", len(v.Array))
		for _, elem := range v.Array {
			if err := appendValue(buf, elem); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %c", ErrInvalidType, v.Type)
	}
	return nil
}

func OKValue() Value {
	return Value{Type: SimpleString, Str: "OK"}
}

func PongValue() Value {
	return Value{Type: SimpleString, Str: "PONG"}
}

func ErrorValue(msg string) Value {
	return Value{Type: Error, Str: msg}
}

func IntegerValue(n int64) Value {
	return Value{Type: Integer, Int: n}
}

func BulkStringValue(s string) Value {
	return Value{Type: BulkString, Str: s}
}

func NullBulkValue() Value {
	return Value{Type: BulkString, Null: true}
}

func ArrayOfStrings(items []string) Value {
	values := make([]Value, len(items))
	for i, item := range items {
		values[i] = BulkStringValue(item)
	}
	return Value{Type: Array, Array: values}
}
