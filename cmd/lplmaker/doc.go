// Package main hosts the lplmaker CLI entrypoint and command graph.
//
// Running lplmaker without a subcommand generates every configured playlist.
// The remaining commands scaffold and inspect configuration, list past
// generations from the history database, and run environment checks. Config
// resolution and logger setup live in commandContext so subcommands only deal
// with their own flags and output.
package main
