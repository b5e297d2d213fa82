// Package utils provides small time helpers shared by the feed decoders
// and the configuration layer.
package utils
