package container

import "sync"

// InternedKey is a string deduplicated so that equal contents yield the
// same pointer, enabling O(1) property lookup by pointer identity (spec
// §4.1, §9's "Interned keys" design note). Interned keys are immortal for
// the lifetime of the process, matching the teacher's approach of keeping
// class/registry singletons alive for the process lifetime.
type InternedKey struct {
	s string
}

func (k *InternedKey) String() string { return k.s }

var internTable = struct {
	mu sync.RWMutex
	m  map[string]*InternedKey
}{m: make(map[string]*InternedKey, 256)}

// Intern deduplicates s into the process-wide intern table. Safe for
// concurrent use across VM instances (spec §9: "an implementation with
// many VMs must share it behind a lock").
func Intern(s string) *InternedKey {
	internTable.mu.RLock()
	k, ok := internTable.m[s]
	internTable.mu.RUnlock()
	if ok {
		return k
	}

	internTable.mu.Lock()
	defer internTable.mu.Unlock()
	if k, ok := internTable.m[s]; ok {
		return k
	}
	k = &InternedKey{s: s}
	internTable.m[s] = k
	return k
}
