package model

import "crypto/sha256"

// Fixed-width parts of the persisted project layout.
const (
	DiscriminatorLength = 8
	stringPrefixLength  = 4 // u32 length before every text field
	stateTagLength      = 1
	allocationLength    = 8
	timestampLength     = 8

	// projectFixedSpace is everything except the bytes of name and description.
	projectFixedSpace = DiscriminatorLength +
		PubkeyLength + // id
		stringPrefixLength + // name
		stringPrefixLength + // description
		stateTagLength +
		PubkeyLength + // token_mint
		PubkeyLength + // creator
		allocationLength +
		timestampLength
)

// ProjectSpace returns the exact number of bytes a project record with the
// given name and description occupies. Lengths are UTF-8 byte counts.
func ProjectSpace(name, description string) int {
	return projectFixedSpace + len(name) + len(description)
}

// Discriminator returns the 8-byte tag that prefixes a serialized value of the
// given namespace ("account" or "event") and type name.
func Discriminator(namespace, name string) [DiscriminatorLength]byte {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var d [DiscriminatorLength]byte
	copy(d[:], sum[:DiscriminatorLength])
	return d
}
