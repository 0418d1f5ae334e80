package store

import (
	"fmt"
	"testing"
)

func TestHashTableSetGet(t *testing.T) {
	ht := NewHashTable()

	isNew := ht.Set("host", "example.com")
	if !isNew {
		t.Error("Expected isNew to be true for new key")
	}

	value, exists := ht.Get("host")
	if !exists {
		t.Error("Expected host to exist")
	}
	if value != "example.com" {
		t.Errorf("Expected example.com, got %s", value)
	}

	isNew = ht.Set("host", "other.example.com")
	if isNew {
		t.Error("Expected isNew to be false for overwritten key")
	}

	value, exists = ht.Get("host")
	if !exists {
		t.Error("Expected host to exist after overwrite")
	}
	if value != "other.example.com" {
		t.Errorf("Expected other.example.com, got %s", value)
	}

	_, exists = ht.Get("missing")
	if exists {
		t.Error("Expected missing key to not exist")
	}

	if ht.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", ht.Len())
	}
}

func TestHashTableRepeatedSet(t *testing.T) {
	ht := NewHashTable()

	ht.Set("port", "22")
	ht.Set("port", "22")

	if ht.Len() != 1 {
		t.Errorf("Expected 1 entry after repeated set, got %d", ht.Len())
	}

	value, exists := ht.Get("port")
	if !exists || value != "22" {
		t.Errorf("Expected 22, got %q (exists=%v)", value, exists)
	}

	keys := ht.Keys()
	if len(keys) != 1 {
		t.Errorf("Expected 1 key, got %d", len(keys))
	}
}

func TestHashTableEmpty(t *testing.T) {
	ht := NewHashTable()

	if _, exists := ht.Get("anything"); exists {
		t.Error("Expected lookup on empty table to miss")
	}

	if keys := ht.Keys(); len(keys) != 0 {
		t.Errorf("Expected no keys, got %d", len(keys))
	}

	if ht.Len() != 0 {
		t.Errorf("Expected empty table, got %d entries", ht.Len())
	}
}

func TestHashTableKeys(t *testing.T) {
	ht := NewHashTable()

	ht.Set("a", "1")
	ht.Set("b", "2")
	ht.Set("c", "3")
	ht.Set("b", "20")

	keys := ht.Keys()
	if len(keys) != 3 {
		t.Fatalf("Expected 3 keys, got %d", len(keys))
	}

	seen := make(map[string]bool)
	for _, k := range keys {
		seen[k] = true
	}
	for _, want := range []string{"a", "b", "c"} {
		if !seen[want] {
			t.Errorf("Expected key %q in enumeration", want)
		}
	}
}

func TestHashTableKeysSnapshot(t *testing.T) {
	ht := NewHashTable()
	ht.Set("a", "1")

	keys := ht.Keys()
	ht.Set("b", "2")

	if len(keys) != 1 || keys[0] != "a" {
		t.Errorf("Expected snapshot unaffected by later writes, got %v", keys)
	}
}

func TestHashTableCollisionChain(t *testing.T) {
	// A constant hash forces every key into one bucket.
	ht := NewHashTable(WithHashFunc(func([]byte) uint32 { return 7 }))

	const n = 32
	for i := 0; i < n; i++ {
		ht.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i))
	}

	if ht.Len() != n {
		t.Fatalf("Expected %d entries, got %d", n, ht.Len())
	}

	for i := 0; i < n; i++ {
		value, exists := ht.Get(fmt.Sprintf("key-%d", i))
		if !exists {
			t.Fatalf("Expected key-%d to exist", i)
		}
		if value != fmt.Sprintf("value-%d", i) {
			t.Errorf("Expected value-%d, got %s", i, value)
		}
	}

	// Overwrite a key buried mid-chain and make sure no duplicate appears.
	ht.Set("key-13", "rewritten")
	if value, _ := ht.Get("key-13"); value != "rewritten" {
		t.Errorf("Expected rewritten, got %s", value)
	}
	if ht.Len() != n {
		t.Errorf("Expected %d entries after overwrite, got %d", n, ht.Len())
	}
	if keys := ht.Keys(); len(keys) != n {
		t.Errorf("Expected %d keys, got %d", n, len(keys))
	}
}

func TestHashTableCRC32Collisions(t *testing.T) {
	// Find real keys that collide under the default hash modulo the
	// bucket count, then check they stay independently retrievable.
	buckets := make(map[uint32][]string)
	var colliding []string
	for i := 0; len(colliding) == 0 && i < 10000; i++ {
		key := fmt.Sprintf("session-%d", i)
		idx := CRC32Hash([]byte(key)) % NumBuckets
		buckets[idx] = append(buckets[idx], key)
		if len(buckets[idx]) >= 3 {
			colliding = buckets[idx]
		}
	}
	if len(colliding) < 3 {
		t.Fatal("Could not find colliding keys")
	}

	ht := NewHashTable()
	for i, key := range colliding {
		ht.Set(key, fmt.Sprintf("%d", i))
	}

	for i, key := range colliding {
		value, exists := ht.Get(key)
		if !exists {
			t.Fatalf("Expected colliding key %q to exist", key)
		}
		if value != fmt.Sprintf("%d", i) {
			t.Errorf("Expected %d for %q, got %s", i, key, value)
		}
	}

	if ht.Len() != len(colliding) {
		t.Errorf("Expected %d entries, got %d", len(colliding), ht.Len())
	}
}

func TestHashTableKeyIndependence(t *testing.T) {
	ht := NewHashTable()

	buf := []byte("hostname")
	ht.Set(string(buf), "example.com")
	buf[0] = 'X'

	value, exists := ht.Get("hostname")
	if !exists || value != "example.com" {
		t.Error("Expected stored key to be independent of the caller's buffer")
	}
}

func TestHashTableDestroy(t *testing.T) {
	ht := NewHashTable(WithHashFunc(func([]byte) uint32 { return 0 }))
	for i := 0; i < 10; i++ {
		ht.Set(fmt.Sprintf("key-%d", i), "v")
	}

	ht.Destroy()

	if ht.Len() != 0 {
		t.Errorf("Expected destroyed table to report 0 entries, got %d", ht.Len())
	}

	ht.Destroy()
}

func TestHashTableScenario(t *testing.T) {
	ht := NewHashTable()

	ht.Set("host", "example.com")
	ht.Set("port", "22")

	if value, _ := ht.Get("host"); value != "example.com" {
		t.Errorf("Expected example.com, got %s", value)
	}
	if _, exists := ht.Get("missing"); exists {
		t.Error("Expected missing to be absent")
	}

	keys := ht.Keys()
	if len(keys) != 2 {
		t.Fatalf("Expected 2 keys, got %d", len(keys))
	}
	seen := map[string]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	if !seen["host"] || !seen["port"] {
		t.Errorf("Expected host and port, got %v", keys)
	}
}
