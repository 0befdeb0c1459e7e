package vm

// Table is a flat, open-addressed, linear-probing map from an interned
// ObjString to a Value. Capacity is always a power of two starting at 8;
// the table resizes once the load factor (live entries + tombstones over
// capacity) exceeds 0.75.
type Table struct {
	count   int // live entries + tombstones
	entries []tableEntry
}

type tableEntry struct {
	key   *ObjString
	value Value
}

const tableMaxLoad = 0.75

func isTombstone(e tableEntry) bool {
	return e.key == nil && e.value.Kind == KindBool && e.value.Bool
}

func isEmptySlot(e tableEntry) bool {
	return e.key == nil && !isTombstone(e)
}

// Get returns the value stored under key, if any.
func (t *Table) Get(key *ObjString) (Value, bool) {
	if len(t.entries) == 0 {
		return Value{}, false
	}
	idx := t.findEntry(key)
	if idx < 0 {
		return Value{}, false
	}
	return t.entries[idx].value, true
}

// Set stores value under key, growing the table if needed. It returns true
// if this inserted a brand-new key.
func (t *Table) Set(key *ObjString, value Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		t.grow()
	}
	idx := t.probeForInsert(key)
	entry := &t.entries[idx]
	isNew := entry.key == nil
	if isNew && !isTombstone(*entry) {
		t.count++
	}
	entry.key = key
	entry.value = value
	return isNew
}

// Delete removes key, leaving a tombstone so later probes skip past it.
func (t *Table) Delete(key *ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	idx := t.findEntry(key)
	if idx < 0 {
		return false
	}
	t.entries[idx] = tableEntry{key: nil, value: BoolVal(true)}
	return true
}

// AppendAll copies every live entry from t into dst — used for class method
// inheritance (superclass methods copied into the subclass table).
func (t *Table) AppendAll(dst *Table) {
	for _, e := range t.entries {
		if e.key != nil {
			dst.Set(e.key, e.value)
		}
	}
}

// ForEach visits every live entry, for GC marking.
func (t *Table) ForEach(fn func(key *ObjString, value Value)) {
	for _, e := range t.entries {
		if e.key != nil {
			fn(e.key, e.value)
		}
	}
}

func (t *Table) capacity() int { return len(t.entries) }

// findEntry returns the slot index holding key, or -1 if absent.
func (t *Table) findEntry(key *ObjString) int {
	n := len(t.entries)
	idx := int(key.Hash) & (n - 1)
	for {
		e := &t.entries[idx]
		if e.key == key {
			return idx
		}
		if e.key == nil && !isTombstone(*e) {
			return -1
		}
		idx = (idx + 1) & (n - 1)
	}
}

// probeForInsert finds the slot to write key into: either an existing
// entry for key, or the first empty/tombstone slot encountered.
func (t *Table) probeForInsert(key *ObjString) int {
	n := len(t.entries)
	idx := int(key.Hash) & (n - 1)
	var tombstone = -1
	for {
		e := &t.entries[idx]
		if e.key == nil {
			if isTombstone(*e) {
				if tombstone == -1 {
					tombstone = idx
				}
			} else {
				if tombstone != -1 {
					return tombstone
				}
				return idx
			}
		} else if e.key == key {
			return idx
		}
		idx = (idx + 1) & (n - 1)
	}
}

func (t *Table) grow() {
	newCap := 8
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	old := t.entries
	t.entries = make([]tableEntry, newCap)
	t.count = 0
	for _, e := range old {
		if e.key != nil {
			idx := t.probeForInsert(e.key)
			t.entries[idx] = e
			t.count++
		}
	}
}
