package consts

// VERSION is the embedded language's version string, surfaced to
// scripts via the base library and to the REPL banner.
const VERSION = "0.1.0"

// Debug gates the logger package's output. Off by default; a host
// embedding the runtime flips it for development builds.
var Debug = false
