// Package mavlink implements a from-scratch MAVLink v1/v2 wire codec: CRC,
// frame (de)serialization, a struct-tag-driven message registry, and a
// resynchronizing streaming frame parser. It deliberately does not depend
// on an existing MAVLink library — building this codec is the point of
// this package, not a detail to delegate.
package mavlink

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Message is implemented by every registered MAVLink message struct.
type Message interface {
	GetID() uint32
}

// fieldDesc describes one struct field of a registered message: how it is
// named and typed on the wire, independent of where Go placed it in memory.
type fieldDesc struct {
	index    int
	name     string // canonical snake_case field name, used in the CRC signature
	cType    string // canonical C type name, used in the CRC signature
	elemSize int    // wire size in bytes of one element
	arrayLen int     // 0 for scalars, 1 for exactly one elements, >1 for arrays
	isString bool
	isExt    bool
}

func (f fieldDesc) totalSize() int {
	if f.arrayLen == 0 {
		return f.elemSize
	}
	return f.elemSize * f.arrayLen
}

// MessageDef is the compile-time manifest entry for one message: its
// identity, its canonical byte-length bounds, and its CRC_EXTRA.
type MessageDef struct {
	ID       uint32
	Name     string
	CRCExtra byte
	MinLen   int
	MaxLen   int

	reflType  reflect.Type // struct type, not pointer
	declOrder []fieldDesc  // declaration order, used for the CRC signature
	wireOrder []fieldDesc  // size-descending order, used for wire packing
}

var (
	registryMu sync.RWMutex
	byID       = map[uint32]*MessageDef{}
	byName     = map[string]*MessageDef{}
)

// Register derives a MessageDef from msg's struct tags and adds it to the
// global registry. It panics on a malformed message definition since that
// can only happen from a programming error at package-init time, mirroring
// how a generated-from-XML registry would fail fast on a bad dialect file.
func Register(msg Message) *MessageDef {
	def, err := buildDef(msg)
	if err != nil {
		panic(fmt.Sprintf("mavlink: register %T: %v", msg, err))
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	byID[def.ID] = def
	byName[def.Name] = def
	return def
}

// Lookup returns the MessageDef for a message id, or (nil, false) if the
// id is not registered. An unregistered id is not an error by itself —
// callers surface it as an unknown-message diagnostic event per spec.
func Lookup(id uint32) (*MessageDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := byID[id]
	return d, ok
}

// LookupByName returns the MessageDef for a canonical message name.
func LookupByName(name string) (*MessageDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := byName[strings.ToUpper(name)]
	return d, ok
}

func buildDef(msg Message) (*MessageDef, error) {
	rv := reflect.ValueOf(msg)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("message must be a pointer to struct")
	}
	st := rv.Elem().Type()

	name := camelToMessageName(st.Name())

	fields := make([]fieldDesc, 0, st.NumField())
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		fd, err := describeField(sf, i)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		fields = append(fields, fd)
	}

	wireOrder := append([]fieldDesc(nil), fields...)
	sort.SliceStable(wireOrder, func(i, j int) bool {
		return wireOrder[i].elemSize > wireOrder[j].elemSize
	})
	// extension fields always pack last, in declared order, regardless of size
	nonExt := wireOrder[:0:0]
	var ext []fieldDesc
	for _, f := range wireOrder {
		if f.isExt {
			ext = append(ext, f)
		} else {
			nonExt = append(nonExt, f)
		}
	}
	// ext must additionally preserve *declaration* order, not size order
	sort.SliceStable(ext, func(i, j int) bool { return ext[i].index < ext[j].index })
	wireOrder = append(nonExt, ext...)

	minLen, maxLen := 0, 0
	for _, f := range fields {
		if f.isExt {
			maxLen += f.totalSize()
		} else {
			minLen += f.totalSize()
			maxLen += f.totalSize()
		}
	}

	crcExtra := crcExtraForFields(name, wireOrder)

	return &MessageDef{
		ID:        msg.GetID(),
		Name:      name,
		CRCExtra:  crcExtra,
		MinLen:    minLen,
		MaxLen:    maxLen,
		reflType:  st,
		declOrder: fields,
		wireOrder: wireOrder,
	}, nil
}

func describeField(sf reflect.StructField, index int) (fieldDesc, error) {
	fd := fieldDesc{index: index}

	fd.name = sf.Tag.Get("mavname")
	if fd.name == "" {
		fd.name = camelToSnake(sf.Name)
	}
	fd.isExt = sf.Tag.Get("mavext") == "true"

	ft := sf.Type
	arrayLen := 0
	elemType := ft
	if ft.Kind() == reflect.Array {
		arrayLen = ft.Len()
		elemType = ft.Elem()
	}

	if ft.Kind() == reflect.String {
		n, err := strconv.Atoi(sf.Tag.Get("mavlen"))
		if err != nil || n <= 0 {
			return fd, fmt.Errorf("string field requires mavlen tag")
		}
		fd.isString = true
		fd.elemSize = 1
		fd.arrayLen = n
		fd.cType = "char"
		return fd, nil
	}

	if enumSize := sf.Tag.Get("mavenum"); enumSize != "" {
		size, cType, err := enumWireType(enumSize)
		if err != nil {
			return fd, err
		}
		fd.elemSize = size
		fd.cType = cType
		fd.arrayLen = arrayLen
		return fd, nil
	}

	size, cType, err := kindWireType(elemType.Kind())
	if err != nil {
		return fd, err
	}
	fd.elemSize = size
	fd.cType = cType
	fd.arrayLen = arrayLen
	return fd, nil
}

func enumWireType(tag string) (int, string, error) {
	switch tag {
	case "uint8":
		return 1, "uint8_t", nil
	case "uint16":
		return 2, "uint16_t", nil
	case "uint32":
		return 4, "uint32_t", nil
	default:
		return 0, "", fmt.Errorf("unsupported mavenum wire size %q", tag)
	}
}

func kindWireType(k reflect.Kind) (int, string, error) {
	switch k {
	case reflect.Uint8:
		return 1, "uint8_t", nil
	case reflect.Int8:
		return 1, "int8_t", nil
	case reflect.Uint16:
		return 2, "uint16_t", nil
	case reflect.Int16:
		return 2, "int16_t", nil
	case reflect.Uint32:
		return 4, "uint32_t", nil
	case reflect.Int32:
		return 4, "int32_t", nil
	case reflect.Uint64:
		return 8, "uint64_t", nil
	case reflect.Int64:
		return 8, "int64_t", nil
	case reflect.Float32:
		return 4, "float", nil
	case reflect.Float64:
		return 8, "double", nil
	default:
		return 0, "", fmt.Errorf("unsupported field kind %s", k)
	}
}

// crcExtraForFields implements the MAVLink CRC_EXTRA algorithm: the X.25
// CRC of the message name and, for every non-extension field in wire
// (size-descending) order, its canonical C type and field name, with
// array fields additionally folding in their length as a raw byte.
func crcExtraForFields(name string, fields []fieldDesc) byte {
	c := NewCRC16()
	x25AccumulateString(c, name+" ")
	for _, f := range fields {
		if f.isExt {
			continue
		}
		x25AccumulateString(c, f.cType+" ")
		x25AccumulateString(c, f.name+" ")
		if f.isString {
			c.Accumulate(byte(f.arrayLen))
		} else if f.arrayLen > 0 {
			c.Accumulate(byte(f.arrayLen))
		}
	}
	sum := c.Sum16()
	return byte(sum&0xFF) ^ byte(sum>>8)
}

func camelToMessageName(goName string) string {
	// "MessageHeartbeat" -> "HEARTBEAT"
	const prefix = "Message"
	s := strings.TrimPrefix(goName, prefix)
	return strings.ToUpper(camelToSnake(s))
}

func camelToSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
				if (prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9') || (nextLower && prev >= 'A' && prev <= 'Z') {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
