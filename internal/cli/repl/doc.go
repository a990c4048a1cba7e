// Package repl provides the interactive shell of cmsadmin.
//
// The shell reads one line at a time, splits it into arguments and hands
// them to an Executor, normally a fresh urfave/cli app sharing the
// shell's connection. A Ctrl-C cancels only the running command.
package repl
