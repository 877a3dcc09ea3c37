package cache

// ArtifactKeyOpts lists everything besides the data that changes an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	// Options is the resolved chart configuration. It is hashed as JSON.
	Options any `json:"options,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DatasetKey keys the prepared bars of a dataset hash in a given mode.
	DatasetKey(datasetHash string, mode string, options any) string
	// ArtifactKey keys one rendered output of a dataset hash.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey implements Keyer.
func (DefaultKeyer) DatasetKey(datasetHash, mode string, options any) string {
	return hashKey("bars", datasetHash, mode, options)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, datasetHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer. Scoping by release
// version keeps artifacts of different renderer versions apart.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means NewDefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DatasetKey implements Keyer.
func (k *ScopedKeyer) DatasetKey(datasetHash, mode string, options any) string {
	return k.prefix + k.inner.DatasetKey(datasetHash, mode, options)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(datasetHash, opts)
}
