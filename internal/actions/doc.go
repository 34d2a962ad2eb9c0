// Package actions provides the logic behind each remotepipe command.
//
// Each action corresponds to a command (init, scan, resolve, checkout, env)
// and orchestrates the definition, binder, scan, git and github packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides the loaded config, Splog and output
//   - Actions are stateless; project state lives in the configuration file
//   - Collaborators that reach the network are injectable through options
package actions
