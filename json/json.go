// Package json exposes the jsoniter configuration shared by the table
// marshaling code and the REPL's history file, kept as its own package
// so neither has to import the other for a single shared value.
package json

import jsoniter "github.com/json-iterator/go"

var Json = jsoniter.ConfigCompatibleWithStandardLibrary
