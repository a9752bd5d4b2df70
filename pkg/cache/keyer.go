package cache

import "github.com/matzehuels/untangle/pkg/anneal"

// ResultKeyOpts are the ordering inputs, besides the graph itself, that
// change a result.
type ResultKeyOpts struct {
	Params    anneal.Params `json:"params"`
	Seed      uint64        `json:"seed"`
	TieBreak  float64       `json:"tie_break"`
	Passes    int           `json:"passes"`
	GroupKey  string        `json:"group_key,omitempty"`
	Normalize bool          `json:"normalize,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	ResultKey(graphHash string, opts ResultKeyOpts) string
}

// DefaultKeyer produces "result:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey hashes the graph hash together with every option.
func (DefaultKeyer) ResultKey(graphHash string, opts ResultKeyOpts) string {
	return hashKey("result", graphHash, opts)
}

// ScopedKeyer prefixes every key, so several tenants or API instances can
// share one Redis database without seeing each other's entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer if inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResultKey returns the prefixed key.
func (k *ScopedKeyer) ResultKey(graphHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(graphHash, opts)
}
