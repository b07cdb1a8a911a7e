// Package fingerprint computes a stable digest of an IR tree: two trees
// that would emit identical expressions under the same feature gate hash
// identically, independent of Go map iteration order or any incidental
// field layout.
//
// The tree is encoded with deterministic CBOR (cbor.CanonicalEncOptions)
// and hashed with a streaming BLAKE2b-256, writing distinct semantic parts
// as separate Write calls rather than one concatenated buffer.
package fingerprint

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/graphcode/gate"
	"github.com/aledsdavies/graphcode/internal/errs"
	"github.com/aledsdavies/graphcode/ir"
)

// Sum computes the BLAKE2b-256 digest of root's canonical CBOR encoding,
// mixed with mask so two structurally identical trees parsed under
// different feature gates never collide — the digest is sensitive to the
// gate/tree pairing, not just the tree.
func Sum(mask gate.Mask, root *ir.Node) ([32]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return [32]byte{}, errs.Wrap(errs.AssertionFailed, "fingerprint: cbor encoder", err)
	}

	data, err := encMode.Marshal(canonicalize(root))
	if err != nil {
		return [32]byte{}, errs.Wrap(errs.AssertionFailed, "fingerprint: cbor encode", err)
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, errs.Wrap(errs.AssertionFailed, "fingerprint: blake2b init", err)
	}

	maskBytes := []byte{byte(mask), byte(mask >> 8), byte(mask >> 16), byte(mask >> 24)}
	if _, err := hasher.Write(maskBytes); err != nil {
		return [32]byte{}, errs.Wrap(errs.AssertionFailed, "fingerprint: hash mask", err)
	}
	if _, err := hasher.Write(data); err != nil {
		return [32]byte{}, errs.Wrap(errs.AssertionFailed, "fingerprint: hash body", err)
	}

	var digest [32]byte
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// SumHex is Sum with the digest rendered as lowercase hex, convenient for
// logging and cache keys.
func SumHex(mask gate.Mask, root *ir.Node) (string, error) {
	digest, err := Sum(mask, root)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(digest[:]), nil
}
