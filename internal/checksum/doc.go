// Package checksum fingerprints SQL scripts by their logical content.
//
// Normalization lowercases the script, removes -- and /* */ comments outside
// of quoted and dollar-quoted literals, and collapses whitespace runs to a
// single space. Two scripts that differ only in formatting or comments share
// a fingerprint, and a script holding nothing but comments normalizes to the
// empty string.
package checksum
