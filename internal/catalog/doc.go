// Package catalog holds the ordered department pipeline orders move through.
//
// The pipeline is loaded once at startup from a YAML definition file (or the
// embedded default jewelry pipeline) and is immutable afterwards. The catalog
// answers successor lookups for the cascade and existence checks for
// validation; it carries no mutable state.
package catalog
