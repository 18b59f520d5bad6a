// Package git reads repository metadata for build provenance.
package git
