package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

// Cache stores serialized analysis reports keyed by request content.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// New creates the cache backend selected by configuration.
func New(cfg model.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryCache(cfg.TTL), nil
	case "disk":
		return NewDiskCache(cfg.Dir, cfg.TTL), nil
	case "layered":
		return NewLayeredCache(cfg.TTL, cfg.Dir, cfg.TTL), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// Key derives a cache key from the engine version and the full request
// content. Sections are length-prefixed so adjacent fields cannot collide
// (text "ab"+audio "c" hashes differently from text "a"+audio "bc").
func Key(version string, req *model.AnalysisRequest) string {
	h := sha256.New()
	writeSection := func(b []byte) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}

	writeSection([]byte(version))
	writeSection([]byte(req.Text))
	writeSection([]byte(req.AudioName))
	writeSection(req.AudioData)
	writeSection([]byte(req.ImageName))
	writeSection(req.ImageData)

	return "emorec:v1:" + hex.EncodeToString(h.Sum(nil))
}
