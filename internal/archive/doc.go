// Package archive recognizes downloaded subtitle archives and unpacks them.
//
// Classification is a pure function of the leading bytes, so callers can decide
// what to do with a payload before touching the filesystem. Zip archives are extracted,
// RAR archives are stored as they are.
package archive
