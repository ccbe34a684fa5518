package main

// Version is stamped by the release build.
var Version = "0.1.0"
