package hashauth

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"hash/adler32"
	"hash/crc32"
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// Hash algorithm identifiers registered by default.
const (
	AlgorithmMD4        = "md4"
	AlgorithmMD5        = "md5"
	AlgorithmSHA1       = "sha1"
	AlgorithmSHA224     = "sha224"
	AlgorithmSHA256     = "sha256"
	AlgorithmSHA384     = "sha384"
	AlgorithmSHA512224  = "sha512/224"
	AlgorithmSHA512256  = "sha512/256"
	AlgorithmSHA512     = "sha512"
	AlgorithmSHA3224    = "sha3-224"
	AlgorithmSHA3256    = "sha3-256"
	AlgorithmSHA3384    = "sha3-384"
	AlgorithmSHA3512    = "sha3-512"
	AlgorithmRIPEMD160  = "ripemd160"
	AlgorithmBLAKE2b256 = "blake2b-256"
	AlgorithmBLAKE2b384 = "blake2b-384"
	AlgorithmBLAKE2b512 = "blake2b-512"
	AlgorithmBLAKE2s256 = "blake2s-256"
	AlgorithmCRC32B     = "crc32b"
	AlgorithmAdler32    = "adler32"
	AlgorithmFNV132     = "fnv132"
	AlgorithmFNV1a32    = "fnv1a32"
	AlgorithmFNV164     = "fnv164"
	AlgorithmFNV1a64    = "fnv1a64"
	AlgorithmFNV1128    = "fnv1128"
	AlgorithmFNV1a128   = "fnv1a128"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]func() hash.Hash{
		AlgorithmMD4:        md4.New,
		AlgorithmMD5:        md5.New,
		AlgorithmSHA1:       sha1.New,
		AlgorithmSHA224:     sha256.New224,
		AlgorithmSHA256:     sha256.New,
		AlgorithmSHA384:     sha512.New384,
		AlgorithmSHA512224:  sha512.New512_224,
		AlgorithmSHA512256:  sha512.New512_256,
		AlgorithmSHA512:     sha512.New,
		AlgorithmSHA3224:    sha3.New224,
		AlgorithmSHA3256:    sha3.New256,
		AlgorithmSHA3384:    sha3.New384,
		AlgorithmSHA3512:    sha3.New512,
		AlgorithmRIPEMD160:  ripemd160.New,
		AlgorithmBLAKE2b256: unkeyed(blake2b.New256),
		AlgorithmBLAKE2b384: unkeyed(blake2b.New384),
		AlgorithmBLAKE2b512: unkeyed(blake2b.New512),
		AlgorithmBLAKE2s256: unkeyed(blake2s.New256),
		AlgorithmCRC32B:     func() hash.Hash { return crc32.NewIEEE() },
		AlgorithmAdler32:    func() hash.Hash { return adler32.New() },
		AlgorithmFNV132:     func() hash.Hash { return fnv.New32() },
		AlgorithmFNV1a32:    func() hash.Hash { return fnv.New32a() },
		AlgorithmFNV164:     func() hash.Hash { return fnv.New64() },
		AlgorithmFNV1a64:    func() hash.Hash { return fnv.New64a() },
		AlgorithmFNV1128:    fnv.New128,
		AlgorithmFNV1a128:   fnv.New128a,
	}
)

// unkeyed adapts a BLAKE2 constructor for use without a key. A nil key never
// produces an error.
func unkeyed(fn func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, _ := fn(nil)
		return h
	}
}

// HashAlgorithms returns the sorted names of all supported hash algorithms.
func HashAlgorithms() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSupportedHashAlgorithm reports whether name identifies a registered hash algorithm.
func IsSupportedHashAlgorithm(name string) bool {
	_, ok := lookupHashAlgorithm(name)
	return ok
}

// RegisterHashAlgorithm adds a hash algorithm under the given name. Names that
// are already registered, including the built-in ones, cannot be replaced.
func RegisterHashAlgorithm(name string, fn func() hash.Hash) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: hash algorithm name must not be empty", ErrInvalidArgument)
	}
	if fn == nil {
		return fmt.Errorf("%w: hash algorithm %q has no constructor", ErrInvalidArgument, name)
	}
	if fn() == nil {
		return fmt.Errorf("%w: hash algorithm %q constructor returned nil", ErrInvalidArgument, name)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		return fmt.Errorf("%w: hash algorithm %q is already registered", ErrInvalidArgument, name)
	}
	registry[name] = fn
	return nil
}

func lookupHashAlgorithm(name string) (func() hash.Hash, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[name]
	return fn, ok
}

func validateHashAlgorithm(name string) error {
	if !IsSupportedHashAlgorithm(name) {
		return fmt.Errorf("%w: unsupported hash algorithm %q", ErrInvalidArgument, name)
	}
	return nil
}
