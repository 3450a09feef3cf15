package resp

// validateInteger accepts an optional leading '-' followed by at least one
// ASCII digit, mirroring parser::validate_integral in the original decoder.
func validateInteger(b []byte) bool {
	start := 0
	if len(b) > 1 && b[0] == '-' {
		start = 1
	}
	if start == len(b) {
		return false
	}
	for _, c := range b[start:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// validateDouble accepts an optional leading '-' followed by digits with at
// most one decimal separator, where both '.' and ',' are accepted as the
// separator (source behavior, per validate_double in the original decoder).
func validateDouble(b []byte) bool {
	start := 0
	if len(b) > 1 && b[0] == '-' {
		start = 1
	}
	if start == len(b) {
		return false
	}
	seenSep := false
	for _, c := range b[start:] {
		if c == '.' || c == ',' {
			if seenSep {
				return false
			}
			seenSep = true
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// validateBoolean accepts exactly one of t, T, f, F, per validate_boolean.
func validateBoolean(b []byte) bool {
	if len(b) != 1 {
		return false
	}
	switch b[0] {
	case 't', 'T', 'f', 'F':
		return true
	}
	return false
}

// validateNull accepts only an empty payload, per validate_null.
func validateNull(b []byte) bool {
	return len(b) == 0
}
