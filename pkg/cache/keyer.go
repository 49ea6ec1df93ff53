package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey identifies a layout of the tree with the given hash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds everything besides the tree that changes a layout.
type LayoutKeyOpts struct {
	Measure string  `json:"measure"` // "face" or "cell"
	Font    string  `json:"font,omitempty"`
	Size    float64 `json:"size,omitempty"`
	DPI     float64 `json:"dpi,omitempty"`
	Mode    string  `json:"mode"`
	Pad     int     `json:"pad"`
	Line    int     `json:"line"`
}

// ArtifactKeyOpts holds everything besides the layout that changes an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Margin   int    `json:"margin,omitempty"`
	Scale    int    `json:"scale,omitempty"`
	Bounds   bool   `json:"bounds,omitempty"`
	Edges    bool   `json:"edges,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:" followed by a hash of treeHash and opts.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey returns "artifact:<format>:" followed by a hash of layoutHash and opts.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey joins prefix and the digest of the JSON encoding of parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
