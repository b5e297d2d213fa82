// Package schema resolves the property schema written by the vector driver.
//
// A schema is an ordered mapping from field name to a definition string of
// the form type[:width[.precision]]. Users extend or override the defaults
// with one of three syntaxes, all normalized into a FieldSpec:
//
//	heading:int:3,dest:str:20      comma-delimited string
//	[heading:int:3, dest:str:20]   list of name:definition tokens
//	{heading: int:3, dest: str:20} mapping of name to definition
//
// Attribute order is significant for some output formats, so merges keep
// the default order for overridden names and append new names.
package schema
