// Package ratelimit throttles HTTP clients by source IP using token buckets
// from golang.org/x/time/rate.
package ratelimit
