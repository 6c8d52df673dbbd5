// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geoloc

import (
	"fmt"
	"net/netip"
	"slices"
)

// node is one bit of the binary prefix trie. A node with a non-nil
// location is terminal for the prefix spelled by the path to it.
type node struct {
	children [2]*node
	loc      *Location
}

// Trie is a longest-prefix-match trie over IP address bits, with
// separate roots for the IPv4 and IPv6 address spaces. It is not safe
// for concurrent mutation, but lookups after construction are.
type Trie struct {
	v4 *node
	v6 *node
	// size is the number of stored prefixes.
	size int
}

// NewTrie creates an empty trie.
func NewTrie() *Trie {
	return &Trie{v4: &node{}, v6: &node{}}
}

// Len returns the number of stored prefixes.
func (t *Trie) Len() int {
	return t.size
}

// Insert stores a location under the given prefix. The prefix is
// canonicalized first; inserting the same prefix twice overwrites the
// earlier location.
func (t *Trie) Insert(prefix netip.Prefix, loc Location) error {
	if !prefix.IsValid() {
		return fmt.Errorf("invalid prefix %q", prefix)
	}
	prefix = canonical(prefix).Masked()

	addr := prefix.Addr()
	root := t.v6
	if addr.Is4() {
		root = t.v4
	}

	raw := addr.AsSlice()
	n := root
	for i := 0; i < prefix.Bits(); i++ {
		b := bitAt(raw, i)
		if n.children[b] == nil {
			n.children[b] = &node{}
		}
		n = n.children[b]
	}

	if n.loc == nil {
		t.size++
	}
	l := loc
	n.loc = &l
	return nil
}

// Lookup resolves the address to the location of the most specific
// stored prefix containing it. Returns ErrNotFound when no prefix
// matches.
func (t *Trie) Lookup(addr netip.Addr) (Location, error) {
	if !addr.IsValid() {
		return Location{}, fmt.Errorf("invalid address")
	}
	addr = addr.Unmap()

	root := t.v6
	if addr.Is4() {
		root = t.v4
	}

	raw := addr.AsSlice()
	var best *Location

	n := root
	for i := 0; ; i++ {
		if n.loc != nil {
			best = n.loc
		}
		if i == len(raw)*8 {
			break
		}
		next := n.children[bitAt(raw, i)]
		if next == nil {
			break
		}
		n = next
	}

	if best == nil {
		return Location{}, ErrNotFound
	}
	return *best, nil
}

// Entry is one stored prefix together with its location.
type Entry struct {
	Prefix   netip.Prefix
	Location Location
}

// Entries enumerates all stored prefixes with their locations in
// deterministic order: IPv4 before IPv6, each space in trie preorder
// with the zero branch first.
func (t *Trie) Entries() []Entry {
	out := make([]Entry, 0, t.size)

	var walk func(n *node, raw []byte, depth int)
	walk = func(n *node, raw []byte, depth int) {
		if n.loc != nil {
			addr, ok := netip.AddrFromSlice(raw)
			if ok {
				out = append(out, Entry{Prefix: netip.PrefixFrom(addr, depth), Location: *n.loc})
			}
		}
		for b := 0; b < 2; b++ {
			child := n.children[b]
			if child == nil {
				continue
			}
			next := slices.Clone(raw)
			if b == 1 {
				next[depth/8] |= 1 << (7 - depth%8)
			}
			walk(child, next, depth+1)
		}
	}

	walk(t.v4, make([]byte, 4), 0)
	walk(t.v6, make([]byte, 16), 0)
	return out
}

// bitAt returns the i-th most significant bit of the address bytes.
func bitAt(raw []byte, i int) int {
	return int(raw[i/8]>>(7-i%8)) & 1
}

// canonical rewrites prefixes over 4-in-6 mapped addresses into plain
// IPv4 prefixes so that both spellings of a block land in the same
// address space.
func canonical(prefix netip.Prefix) netip.Prefix {
	addr := prefix.Addr()
	if addr.Is4In6() && prefix.Bits() >= 96 {
		return netip.PrefixFrom(addr.Unmap(), prefix.Bits()-96)
	}
	return prefix
}
