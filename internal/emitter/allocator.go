package emitter

// identAlphabet is restricted to characters that are valid anywhere in a
// bare JS identifier, so every encoded name is already safe to use as a
// variable name with no escaping or prefix.
const identAlphabet = "$abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"

// encodeVarName maps an allocation index to a short variable name, using a
// long-division-by-base algorithm over identAlphabet — the same scheme a
// base58 encoder uses over its own alphabet.
func encodeVarName(index uint32) string {
	base := uint32(len(identAlphabet))
	if index == 0 {
		return string(identAlphabet[0])
	}

	var digits []byte
	for index > 0 {
		digits = append([]byte{identAlphabet[index%base]}, digits...)
		index /= base
	}
	return string(digits)
}
