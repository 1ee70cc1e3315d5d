// Package app wires the configuration, logger, subdivx client and subtitle service
// together and runs a single download.
package app
