// Package config holds the run configuration of a conversion.
//
// A Config is built once, before the run starts, from three layers:
//
//  1. built-in defaults
//  2. AUL2MADB_* environment variables
//  3. command-line flags
//
// and is then passed explicitly to everything that needs it. Nothing reads
// flags or the environment after that point.
package config
