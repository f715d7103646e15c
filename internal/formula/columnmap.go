package formula

import "minerva/pkg/errors"

// Collision records two raw headers that normalize to the same canonical
// key. The first header keeps the key; the collision is kept so callers can
// log it.
type Collision struct {
	Canonical string
	Kept      string
	Dropped   string
}

// Err renders the collision as an ErrAmbiguousColumn so callers can surface
// it through the usual error taxonomy.
func (c Collision) Err() error {
	return errors.Wrapf(errors.ErrAmbiguousColumn,
		"columns %q and %q both normalize to %q; using %q",
		c.Kept, c.Dropped, c.Canonical, c.Kept)
}

// ColumnMap is a canonical-to-raw column lookup built once per dataset.
// It is immutable after construction and safe for concurrent reads.
type ColumnMap struct {
	byCanonical map[string]string
	collisions  []Collision
}

// NewColumnMap builds a ColumnMap from the dataset's raw headers in order.
// When two headers normalize identically the first occurrence wins.
func NewColumnMap(rawNames []string) *ColumnMap {
	cm := &ColumnMap{byCanonical: make(map[string]string, len(rawNames))}

	for _, raw := range rawNames {
		canonical := Normalize(raw)
		if canonical == "" {
			continue
		}
		if kept, ok := cm.byCanonical[canonical]; ok {
			cm.collisions = append(cm.collisions, Collision{
				Canonical: canonical,
				Kept:      kept,
				Dropped:   raw,
			})
			continue
		}
		cm.byCanonical[canonical] = raw
	}

	return cm
}

// Resolve returns the raw column name stored under a canonical key.
func (cm *ColumnMap) Resolve(canonical string) (string, bool) {
	raw, ok := cm.byCanonical[canonical]
	return raw, ok
}

// Collisions returns the headers dropped by the first-occurrence policy.
func (cm *ColumnMap) Collisions() []Collision {
	return cm.collisions
}

// Len returns the number of distinct canonical keys.
func (cm *ColumnMap) Len() int {
	return len(cm.byCanonical)
}
