// Package matcher scores search result descriptions against a search phrase
// and picks the closest one.
//
// Scoring aligns the phrase with every matching block found between the two strings,
// ignoring spaces and periods, and keeps the best similarity of the aligned windows.
package matcher
