// Package subtitle finds the subdivx result that best matches an episode,
// downloads its archive and unpacks it next to the episode.
package subtitle
