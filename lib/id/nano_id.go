package id

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

// 64 symbols, so one masked random byte maps to exactly one symbol.
var classicNanoIDAlphabet = [64]byte{
	'A', 'B', 'C', 'D', 'E',
	'F', 'G', 'H', 'I', 'J',
	'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T',
	'U', 'V', 'W', 'X', 'Y',
	'Z', 'a', 'b', 'c', 'd',
	'e', 'f', 'g', 'h', 'i',
	'j', 'k', 'l', 'm', 'n',
	'o', 'p', 'q', 'r', 's',
	't', 'u', 'v', 'w', 'x',
	'y', 'z', '0', '1', '2',
	'3', '4', '5', '6', '7',
	'8', '9', '-', '_',
}

func rngUint32() uint32 {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic(err)
	}
	if b[3]&0x8 == 0x0 {
		return binary.LittleEndian.Uint32(b[:])
	}
	return binary.BigEndian.Uint32(b[:])
}

// shuffle perturbs the alphabet once at startup so ids from different
// processes do not share symbol order.
func shuffle(arr []byte) {
	size := len(arr)
	for i := uint32(0); i < uint32(size>>1); i++ {
		j := rngUint32() % uint32(size)
		arr[i], arr[j] = arr[j], arr[i]
	}
}

func init() {
	shuffle(classicNanoIDAlphabet[:])
}

// ClassicNanoID builds a generator of random ids of the given length.
// Randomness is pre-fetched in batches to keep the per-id cost down;
// the returned generator is safe for concurrent use.
func ClassicNanoID(length int) (NanoIDGen, error) {
	if length < 2 || length > 255 {
		return nil, errors.New("invalid nano-id length")
	}

	poolSize := length * length * 8
	pool := make([]byte, poolSize)
	if _, err := crand.Read(pool); err != nil {
		return nil, fmt.Errorf("[nano-id] pre-allocate bytes failed, %w", err)
	}
	buf := make([]byte, length)
	offset := 0
	mask := byte(len(classicNanoIDAlphabet) - 1)

	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()

		if offset == poolSize {
			if _, err := crand.Read(pool); err != nil {
				panic(fmt.Errorf("[nano-id] pre-allocate bytes failed (run out of data), %w", err))
			}
			offset = 0
		}

		for i := 0; i < length; i++ {
			buf[i] = classicNanoIDAlphabet[pool[i+offset]&mask]
		}
		offset += length
		return string(buf)
	}, nil
}
