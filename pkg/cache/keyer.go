package cache

import "fmt"

// ArtifactKeyOpts are the render options that affect an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Layout string `json:"layout"`
	// Kind distinguishes graph renders from legends and documents.
	Kind string `json:"kind,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey returns the key for a rendered artifact of the given source.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "artifact:<hash>" keys, optionally behind a
// namespace prefix so several deployments can share one Redis database.
type DefaultKeyer struct {
	prefix string
}

// NewDefaultKeyer returns a keyer without a prefix.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// NewPrefixedKeyer returns a keyer whose keys start with prefix.
func NewPrefixedKeyer(prefix string) Keyer {
	return &DefaultKeyer{prefix: prefix}
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + hashKey("artifact", sourceHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)

// String describes the keyer for logs.
func (k *DefaultKeyer) String() string {
	return fmt.Sprintf("DefaultKeyer(%q)", k.prefix)
}
