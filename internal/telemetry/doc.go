// Package telemetry implements the flight log pipeline between the
// real-time control loop and the on-disk log file.
//
// Architecture:
//
//	┌──────────────┐     ┌─────────────┐     ┌─────────────┐
//	│ Control Loop │────▶│ Ring Buffer │────▶│   Writer    │
//	│  (producer)  │     │   (FIFO)    │     │   (file)    │
//	└──────────────┘     └─────────────┘     └─────────────┘
//	        │                                       │
//	        └──────────── Session ──────────────────┘
//	                  (start / stop / stats)
//
// The pipeline provides:
//   - Wait-free record submission from the control loop; a full buffer
//     drops the newest record (counted) rather than stalling the cycle
//   - A single background writer that owns the log file, drains the
//     buffer on a fixed wake interval, and syncs on a coarser one
//   - CSV output with a schema-derived header; one line per record
//   - Bounded-time shutdown: a clean stop drains everything, a forced
//     stop closes the file at the deadline and reports records lost
//   - A reader for the same format, used by the flylog tool
//
// Exactly one producer (the control loop) and one consumer (the writer
// goroutine) exist per session.
package telemetry
