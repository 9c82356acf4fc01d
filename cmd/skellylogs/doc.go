// Command skellylogs exercises the skellylogs pipeline from the command line.
//
// It lists the registered severities, previews the per-id terminal colors,
// writes and inspects configuration files, and runs a demo that drives the
// console, file and relay queue sinks from concurrent goroutines and from
// worker processes forwarding records over an inherited pipe.
package main
