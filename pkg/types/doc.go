// Package types defines the shared data models for the fitness-provider-kit
// and the error taxonomy used by the provider clients. It has no dependencies
// on other kit packages so that every layer can share these definitions.
package types
