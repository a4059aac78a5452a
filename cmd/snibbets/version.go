package main

// version can be overridden at build time via -ldflags.
var version = "1.0.0"
