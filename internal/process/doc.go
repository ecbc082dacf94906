// Package process runs external executables for build tasks.
//
// Output of the child is forwarded line by line to the configured sinks while
// it runs. Runner.Run reports the exit code and leaves the decision to the
// caller; RunChecked treats every non-zero exit as fatal.
package process
