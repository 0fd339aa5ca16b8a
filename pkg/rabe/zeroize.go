package rabe

import (
	"math/big"
	"runtime"
)

// ZeroizeBytes overwrites the provided slice with zeros and prevents compiler
// dead store elimination using runtime.KeepAlive.
//
// Go's garbage collector may have copied the data elsewhere, so this is a
// best-effort wipe of the buffer the caller still owns.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	// Prevent dead store elimination per golang/go#33325
	runtime.KeepAlive(buf)
}

// ZeroizeInt overwrites the limbs backing x and sets it to zero. Nil is a
// no-op.
func ZeroizeInt(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	runtime.KeepAlive(words)
	x.SetInt64(0)
}
