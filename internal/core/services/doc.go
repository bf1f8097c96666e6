// Package services contains the core application services. Services
// depend only on ports and domain types; adapters are injected at
// construction.
package services
