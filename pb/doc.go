// Package pb holds the wire messages described in cache.proto.
package pb

//go:generate protoc --gogofaster_out=paths=source_relative:. cache.proto
