package resp

import "bytes"

// Decode parses exactly one RESP element starting at b[0] and returns the
// resulting DataView together with how many bytes of b it consumed
// (available as DataView.Consumed). Decoding never scans beyond the
// outermost element and never allocates for scalar kinds — Payload points
// directly into b.
//
// A malformed element is reported as a KindSimpleError view rather than a
// Go error, matching the wire protocol's own error representation.
func Decode(b []byte) DataView {
	if len(b) == 0 {
		return errView("empty input", 0)
	}

	switch b[0] {
	case byte(KindArray):
		return decodeArray(b)
	case byte(KindBulkString):
		return decodeBulkString(b)
	case byte(KindInteger):
		return decodeScalar(b, validateInteger)
	case byte(KindDouble):
		return decodeScalar(b, validateDouble)
	case byte(KindBoolean):
		return decodeScalar(b, validateBoolean)
	case byte(KindNull):
		return decodeScalar(b, validateNull)
	case byte(KindSimpleString):
		return decodeScalar(b, nil)
	default:
		return errView("unsupported type prefix", 0)
	}
}

// readLine finds the first CRLF in b (searching from offset 1, past the
// type prefix byte) and returns the span between the prefix and the CRLF,
// plus the number of bytes consumed including both the prefix and the
// CRLF itself. ok is false if no terminating CRLF is present.
func readLine(b []byte) (line []byte, consumed int, ok bool) {
	idx := bytes.Index(b[1:], []byte("\r\n"))
	if idx < 0 {
		return nil, 0, false
	}
	return b[1 : 1+idx], 1 + idx + 2, true
}

func decodeScalar(b []byte, validate func([]byte) bool) DataView {
	line, consumed, ok := readLine(b)
	if !ok {
		return errView("truncated input: missing CRLF", 0)
	}
	if validate != nil && !validate(line) {
		return errView("invalid payload for scalar type", consumed)
	}
	return DataView{Kind: Kind(b[0]), Payload: line, Consumed: consumed}
}

func decodeBulkString(b []byte) DataView {
	lenLine, headerLen, ok := readLine(b)
	if !ok {
		return errView("truncated input: missing CRLF", 0)
	}

	n, ok := parseASCIIInt(lenLine)
	if !ok {
		return errView("invalid bulk string length", headerLen)
	}

	if n == -1 {
		return DataView{Kind: KindNull, Consumed: headerLen}
	}
	if n < 0 {
		return errView("invalid bulk string length", headerLen)
	}

	body := b[headerLen:]
	if n > int64(len(body))-2 {
		return errView("bulk string shorter than declared length", 0)
	}
	if body[n] != '\r' || body[n+1] != '\n' {
		return errView("bulk string missing trailing CRLF", 0)
	}

	return DataView{
		Kind:     KindBulkString,
		Payload:  body[:n],
		Consumed: headerLen + int(n) + 2,
	}
}

func decodeArray(b []byte) DataView {
	countLine, headerLen, ok := readLine(b)
	if !ok {
		return errView("truncated input: missing CRLF", 0)
	}

	n, ok := parseASCIIInt(countLine)
	if !ok || n < 0 {
		return errView("invalid array length", headerLen)
	}
	// Every element occupies at least one byte, so a count larger than the
	// remaining input cannot be satisfied.
	if n > int64(len(b)-headerLen) {
		return errView("truncated array: missing element", 0)
	}

	children := make([]DataView, 0, n)
	offset := headerLen
	for i := int64(0); i < n; i++ {
		if offset >= len(b) {
			return errView("truncated array: missing element", 0)
		}
		child := Decode(b[offset:])
		if child.IsError() {
			return child
		}
		children = append(children, child)
		offset += child.Consumed
	}

	return DataView{
		Kind:     KindArray,
		Children: children,
		Consumed: offset,
	}
}

// parseASCIIInt parses an optionally-negative base-10 integer with no
// extraneous characters, the shape shared by bulk-string and array length
// prefixes.
func parseASCIIInt(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	neg := false
	i := 0
	if b[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(b) {
		return 0, false
	}
	var n int64
	for ; i < len(b); i++ {
		c := b[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
