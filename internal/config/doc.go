// Package config loads, validates, and writes the application settings.
package config
