// Package runtime provides the execution context for remotepipe commands.
//
// It encapsulates shared dependencies needed by commands, such as the
// logger, the loaded project configuration and the project directory.
package runtime
