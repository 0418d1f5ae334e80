package store

// NumBuckets is fixed for the life of a table. The table never resizes or
// rehashes: it is built for settings-sized cardinality (tens of entries),
// and load factors above 1 only cost longer chain walks.
const NumBuckets = 256

type entry struct {
	key      string
	value    string
	hasEntry bool
	next     *entry
}

// HashTable maps string keys to string values using a fixed bucket array
// with separate chaining. Chain heads live inside the bucket array itself;
// only collision nodes are allocated individually.
type HashTable struct {
	buckets []entry
	entries int
	hash    HashFunc
}

type HashTableOption func(*HashTable)

func WithHashFunc(fn HashFunc) HashTableOption {
	return func(h *HashTable) {
		h.hash = fn
	}
}

func NewHashTable(opts ...HashTableOption) *HashTable {
	h := &HashTable{
		buckets: make([]entry, NumBuckets),
		hash:    CRC32Hash,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// bucketIndex hashes the full key content. Hashing anything shorter than
// the whole key would collapse keys sharing a prefix into one chain slot.
func (h *HashTable) bucketIndex(key string) int {
	return int(h.hash([]byte(key)) % NumBuckets)
}

// Set inserts key with value, overwriting the value if the key is already
// present. Keys are compared by content, never by identity. Returns true
// if the key was not in the table before.
func (h *HashTable) Set(key, value string) bool {
	cell := &h.buckets[h.bucketIndex(key)]

	if !cell.hasEntry {
		cell.hasEntry = true
		cell.key = key
		cell.value = value
		h.entries++
		return true
	}

	for {
		if cell.key == key {
			cell.value = value
			return false
		}
		if cell.next == nil {
			break
		}
		cell = cell.next
	}

	cell.next = &entry{
		key:      key,
		value:    value,
		hasEntry: true,
	}
	h.entries++
	return true
}

// Get returns the value stored for key. A missing key yields ("", false),
// never a panic.
func (h *HashTable) Get(key string) (string, bool) {
	cell := &h.buckets[h.bucketIndex(key)]
	if !cell.hasEntry {
		return "", false
	}

	for c := cell; c != nil; c = c.next {
		if c.key == key {
			return c.value, true
		}
	}
	return "", false
}

// Keys returns a snapshot of every key, visiting buckets in array order and
// chains in link order. The result is sized to the live entry count, not
// the bucket count, so chains longer than one are fully represented.
func (h *HashTable) Keys() []string {
	keys := make([]string, 0, h.entries)
	for i := range h.buckets {
		cell := &h.buckets[i]
		if !cell.hasEntry {
			continue
		}
		for c := cell; c != nil; c = c.next {
			keys = append(keys, c.key)
		}
	}
	return keys
}

func (h *HashTable) Len() int {
	return h.entries
}

// Destroy unlinks every chain node, clears the bucket array, and drops it.
// The table is not usable afterwards. Calling Destroy twice is a no-op.
func (h *HashTable) Destroy() {
	for i := range h.buckets {
		cell := h.buckets[i].next
		for cell != nil {
			next := cell.next
			cell.next = nil
			cell.key = ""
			cell.value = ""
			cell.hasEntry = false
			cell = next
		}
		h.buckets[i] = entry{}
	}
	h.buckets = nil
	h.entries = 0
}
