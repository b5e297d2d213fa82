// Package driver implements the Vector driver: positional messages are
// written as point features to a vector dataset and, optionally, the path
// of every message is written as a single LineString to a second dataset
// when the driver is closed.
//
// The property schema is the default field set
//
//	mmsi:int:30, timestamp:str:40, course:float:12.1, speed:float:10.1, heading:int:7
//
// merged with any user supplied fields. Format detection from file
// extensions is not supported; name the output format explicitly when the
// shapefile default is not wanted.
package driver
