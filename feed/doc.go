// Package feed turns input data into positional messages for a driver.
//
// Two input formats are supported: GTFS-Realtime vehicle position feeds
// (protobuf) and newline-delimited JSON with one message per line. Client
// fetches raw input from an HTTP(S) URL or a local file.
package feed
