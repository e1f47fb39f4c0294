// Package pseq provides Seq, an immutable ordered sequence with structural
// sharing.
//
// Every operation that looks like a mutation (Append, ReplaceAt) returns a
// new Seq and leaves the receiver unchanged and valid for every other holder.
// Unaffected elements are shared between the old and new sequence, so
// "compute the next state" is an ordinary value transformation with no
// aliasing hazard: a Seq handed to a subscriber stays the same forever.
//
// Seq is backed by the bit-partitioned vector trie of
// github.com/benbjohnson/immutable. Reads are O(log32 n) and do not allocate.
//
// The zero value is an empty sequence ready to use.
package pseq
