// Package relayq holds the bounded queue of flat records that a remote relay
// drains, and the process-wide slot that owns it.
//
// Producers push without blocking; a full queue rejects the newest record and
// keeps the existing entries intact. The queue is only created automatically
// in the owning process. Worker processes receive a forwarding handle that
// writes records as JSON lines to a pipe the owner pumps into the real queue.
package relayq
