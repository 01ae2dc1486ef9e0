package domain

// Inventory is the ordered set of records of one partition. Order is the
// load order with newly created records appended at the end.
type Inventory struct {
	records []*AdRecord
	index   map[Key]*AdRecord
}

// NewInventory builds an inventory from records in store order. When two
// records share a key the first one is indexed; the returned keys list the
// shadowed duplicates so the caller can report them.
func NewInventory(records []*AdRecord) (*Inventory, []Key) {
	inv := &Inventory{
		records: make([]*AdRecord, 0, len(records)),
		index:   make(map[Key]*AdRecord, len(records)),
	}

	var duplicates []Key
	for _, r := range records {
		if r == nil {
			continue
		}
		inv.records = append(inv.records, r)
		if _, exists := inv.index[r.Key()]; exists {
			duplicates = append(duplicates, r.Key())
			continue
		}
		inv.index[r.Key()] = r
	}

	return inv, duplicates
}

// Find returns the record for key
func (inv *Inventory) Find(key Key) (*AdRecord, bool) {
	r, ok := inv.index[key]
	return r, ok
}

// Add appends a record. It returns false when the key is already present.
func (inv *Inventory) Add(r *AdRecord) bool {
	if _, exists := inv.index[r.Key()]; exists {
		return false
	}
	inv.records = append(inv.records, r)
	inv.index[r.Key()] = r
	return true
}

// Records returns the records in store order
func (inv *Inventory) Records() []*AdRecord {
	return inv.records
}

// Len returns the number of records
func (inv *Inventory) Len() int {
	return len(inv.records)
}

// Clone deep copies the inventory
func (inv *Inventory) Clone() *Inventory {
	c := &Inventory{
		records: make([]*AdRecord, 0, len(inv.records)),
		index:   make(map[Key]*AdRecord, len(inv.index)),
	}
	for _, r := range inv.records {
		copied := r.Clone()
		c.records = append(c.records, copied)
		if indexed, ok := inv.index[r.Key()]; ok && indexed == r {
			c.index[r.Key()] = copied
		}
	}
	return c
}
