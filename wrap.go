package pso

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

func hashPos(x []float64) [sha1.Size]byte {
	data := make([]byte, len(x)*8)
	for i, v := range x {
		binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}
	return sha1.Sum(data)
}

type cacheEntry struct {
	val      float64
	artifact interface{}
}

// Cached wraps obj with a cache keyed on the exact bit pattern of the
// position, so re-evaluations of an identical position reuse the first
// result (value and artifact both).
func Cached(obj Objective) Objective {
	cache := map[[sha1.Size]byte]cacheEntry{}
	return func(x []float64, args ...interface{}) (float64, interface{}) {
		h := hashPos(x)
		if e, ok := cache[h]; ok {
			return e.val, e.artifact
		}
		val, artifact := obj(x, args...)
		cache[h] = cacheEntry{val, artifact}
		return val, artifact
	}
}

// Printer wraps obj to write every evaluation to w prefixed with a
// running count.
func Printer(w io.Writer, obj Objective) Objective {
	count := 0
	return func(x []float64, args ...interface{}) (float64, interface{}) {
		val, artifact := obj(x, args...)

		count++
		fmt.Fprint(w, count, " ")
		for _, v := range x {
			fmt.Fprint(w, v, " ")
		}
		fmt.Fprintln(w, "    ", val)

		return val, artifact
	}
}
