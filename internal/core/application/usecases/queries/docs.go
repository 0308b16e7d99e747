// Package queries contains read operations of the dispatch engine. Query
// handlers never modify orders; they read through ports and project with the
// domain services.
package queries
