package aggregate

const maximumObjectIdentifierLengthConstant = 64

// IsHexReference reports whether reference looks like a full or abbreviated
// object id rather than a symbolic name.
func IsHexReference(reference string) bool {
	if len(reference) == 0 || len(reference) > maximumObjectIdentifierLengthConstant {
		return false
	}
	for _, character := range reference {
		switch {
		case character >= '0' && character <= '9':
		case character >= 'a' && character <= 'f':
		case character >= 'A' && character <= 'F':
		default:
			return false
		}
	}
	return true
}
