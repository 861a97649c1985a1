package cipher

import "sync/atomic"

// usage holds the running counters of a registry. Every instance created by
// the registry reports into it.
type usage struct {
	allocated      atomic.Uint64
	freed          atomic.Uint64
	bytesEncrypted atomic.Uint64
	bytesDecrypted atomic.Uint64
	failures       atomic.Uint64
}

// Stats is a point in time copy of a registry's usage counters.
type Stats struct {
	// Registered is the number of registered descriptors.
	Registered int

	// Allocated is the number of instances created.
	Allocated uint64

	// Freed is the number of instances freed.
	Freed uint64

	// BytesEncrypted is the number of bytes successfully encrypted.
	BytesEncrypted uint64

	// BytesDecrypted is the number of bytes successfully decrypted.
	BytesDecrypted uint64

	// Failures counts rejected key, IV, encrypt and decrypt calls.
	Failures uint64
}

// Live returns the number of instances that have not been freed.
func (s Stats) Live() uint64 {
	return s.Allocated - s.Freed
}

func (u *usage) snapshot() Stats {
	return Stats{
		Allocated:      u.allocated.Load(),
		Freed:          u.freed.Load(),
		BytesEncrypted: u.bytesEncrypted.Load(),
		BytesDecrypted: u.bytesDecrypted.Load(),
		Failures:       u.failures.Load(),
	}
}
