// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package transform implements the repeating-key XOR applied to file content.
package transform

import (
	"encoding/binary"
	"fmt"
)

// KeySize is the length of a transform key in bytes.
const KeySize = 8

// 🔑 Key is the repeating XOR key
type Key [KeySize]byte

// 🏭 KeyFromUint64 lays out v little-endian, the way the value sits in memory on the hosts the tool runs on
func KeyFromUint64(v uint64) Key {
	var k Key
	binary.LittleEndian.PutUint64(k[:], v)
	return k
}

// Uint64 returns the key as the value it was parsed from
func (k Key) Uint64() uint64 {
	return binary.LittleEndian.Uint64(k[:])
}

// IsZero reports whether the key is the identity transform
func (k Key) IsZero() bool {
	return k == Key{}
}

// String returns the key as 16 hex digits in value order
func (k Key) String() string {
	return fmt.Sprintf("%016X", k.Uint64())
}

// 🔄 Apply XORs buf in place with key cycled over its length and returns buf.
// Applying the same key twice restores the original bytes.
func Apply(buf []byte, key Key) []byte {
	if key.IsZero() {
		return buf
	}
	for i := range buf {
		buf[i] ^= key[i%KeySize]
	}
	return buf
}
