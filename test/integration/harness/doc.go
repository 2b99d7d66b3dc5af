// Package harness provides utilities for integration testing the move CLI.
// It handles binary compilation, environment isolation, and command execution.
//
// Environment variables managed:
//   - MOVE_HOME: Isolated per test (temp directory)
//   - MOVE_DEBUG: Disabled to reduce noise
//   - GOCOVERDIR: Removed so only the suite under test decides where
//     coverage goes
package harness
