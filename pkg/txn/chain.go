package txn

// Version is one immutable entry in a key's history. It is never mutated
// after it has been linked into a chain.
type Version struct {
	CommitTs  uint64
	Value     []byte
	Tombstone bool
}

// versionChain is the per-key history, ordered newest first by CommitTs.
// All access goes through the owning node's mutex.
type versionChain struct {
	versions []*Version
}

// append prepends a version. CommitTs must be greater than the current
// newest; the commit serialization point guarantees this.
func (c *versionChain) append(v *Version) {
	c.versions = append([]*Version{v}, c.versions...)
}

func (c *versionChain) empty() bool {
	return len(c.versions) == 0
}

// newestCommitTs returns the CommitTs of the head version.
func (c *versionChain) newestCommitTs() (uint64, bool) {
	if len(c.versions) == 0 {
		return 0, false
	}
	return c.versions[0].CommitTs, true
}

// visibleAsOf scans from the newest version and returns the value of the
// first entry with CommitTs <= ts. A tombstone reads as absent, as does an
// exhausted scan.
func (c *versionChain) visibleAsOf(ts uint64) ([]byte, bool) {
	for _, v := range c.versions {
		if v.CommitTs <= ts {
			if v.Tombstone {
				return nil, false
			}
			return v.Value, true
		}
	}
	return nil, false
}

// compact drops every version with CommitTs <= cutoff except the newest
// such version, which stays reachable for readers at the cutoff. Returns
// the number of versions removed.
func (c *versionChain) compact(cutoff uint64) int {
	for i, v := range c.versions {
		if v.CommitTs <= cutoff {
			removed := len(c.versions) - i - 1
			if removed > 0 {
				c.versions = c.versions[:i+1]
			}
			return removed
		}
	}
	return 0
}
