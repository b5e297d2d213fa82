// Package vector writes geospatial features to vector datasets.
//
// It plays the part of the vector I/O library behind the gpsdio Vector
// driver: a dataset is opened in write mode with a Meta (format, CRS,
// property schema, geometry kind), receives features one at a time, and is
// closed. Geometry is modelled with github.com/paulmach/orb.
//
// Supported formats:
//   - ESRI Shapefile: .shp/.shx/.dbf via github.com/jonas-p/go-shp, plus
//     .prj and .cpg sidecars
//   - GeoJSON: a FeatureCollection streamed feature by feature
//   - GeoJSONSeq: newline-delimited GeoJSON features
//   - CSV: a WKT geometry column followed by the schema fields
//
// Collections validate each feature against the schema and geometry kind
// and coerce property values to the declared field types. No coordinate
// transformation is ever performed; the CRS is recorded as metadata only.
package vector
