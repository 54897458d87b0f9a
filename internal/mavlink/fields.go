package mavlink

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// valueOf returns the addressable struct Value behind a pointer-to-struct
// Message, panicking only on the programming error of passing a non-ptr
// (buildDef already validates this once at Register time).
func valueOf(msg Message) reflect.Value {
	return reflect.ValueOf(msg).Elem()
}

func addressableField(msg Message, index int) reflect.Value {
	return reflect.ValueOf(msg).Elem().Field(index)
}

// putField writes one field's wire representation into buf and returns
// the number of bytes consumed.
func putField(buf []byte, f fieldDesc, v reflect.Value) (int, error) {
	if f.isString {
		s := v.String()
		n := copy(buf[:f.arrayLen], s)
		for i := n; i < f.arrayLen; i++ {
			buf[i] = 0
		}
		return f.arrayLen, nil
	}

	if f.arrayLen > 0 {
		off := 0
		for i := 0; i < f.arrayLen; i++ {
			n, err := putScalar(buf[off:], f.elemSize, v.Index(i))
			if err != nil {
				return 0, err
			}
			off += n
		}
		return off, nil
	}

	return putScalar(buf, f.elemSize, v)
}

func getField(buf []byte, f fieldDesc, v reflect.Value) (int, error) {
	if f.isString {
		end := 0
		for end < f.arrayLen && buf[end] != 0 {
			end++
		}
		v.SetString(string(buf[:end]))
		return f.arrayLen, nil
	}

	if f.arrayLen > 0 {
		off := 0
		for i := 0; i < f.arrayLen; i++ {
			n, err := getScalar(buf[off:], f.elemSize, v.Index(i))
			if err != nil {
				return 0, err
			}
			off += n
		}
		return off, nil
	}

	return getScalar(buf, f.elemSize, v)
}

func putScalar(buf []byte, size int, v reflect.Value) (int, error) {
	switch v.Kind() {
	case reflect.Uint8:
		buf[0] = byte(v.Uint())
	case reflect.Int8:
		buf[0] = byte(int8(v.Int()))
	case reflect.Uint16:
		binary.LittleEndian.PutUint16(buf, uint16(v.Uint()))
	case reflect.Int16:
		binary.LittleEndian.PutUint16(buf, uint16(int16(v.Int())))
	case reflect.Uint32:
		binary.LittleEndian.PutUint32(buf, uint32(v.Uint()))
	case reflect.Int32:
		binary.LittleEndian.PutUint32(buf, uint32(int32(v.Int())))
	case reflect.Uint64:
		binary.LittleEndian.PutUint64(buf, v.Uint())
	case reflect.Int64:
		binary.LittleEndian.PutUint64(buf, uint64(v.Int()))
	case reflect.Float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v.Float())))
	case reflect.Float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v.Float()))
	default:
		return 0, fmt.Errorf("unsupported scalar kind %s", v.Kind())
	}
	return size, nil
}

func getScalar(buf []byte, size int, v reflect.Value) (int, error) {
	switch v.Kind() {
	case reflect.Uint8:
		v.SetUint(uint64(buf[0]))
	case reflect.Int8:
		v.SetInt(int64(int8(buf[0])))
	case reflect.Uint16:
		v.SetUint(uint64(binary.LittleEndian.Uint16(buf)))
	case reflect.Int16:
		v.SetInt(int64(int16(binary.LittleEndian.Uint16(buf))))
	case reflect.Uint32:
		v.SetUint(uint64(binary.LittleEndian.Uint32(buf)))
	case reflect.Int32:
		v.SetInt(int64(int32(binary.LittleEndian.Uint32(buf))))
	case reflect.Uint64:
		v.SetUint(binary.LittleEndian.Uint64(buf))
	case reflect.Int64:
		v.SetInt(int64(binary.LittleEndian.Uint64(buf)))
	case reflect.Float32:
		v.SetFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))))
	case reflect.Float64:
		v.SetFloat(math.Float64frombits(binary.LittleEndian.Uint64(buf)))
	default:
		return 0, fmt.Errorf("unsupported scalar kind %s", v.Kind())
	}
	return size, nil
}
