// Package utils provides small helpers shared across the application,
// such as filename sanitizing, extension handling, type conversion, and content type checks.
package utils
