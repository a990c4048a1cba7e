// Package command provides the cmsadmin command tree.
//
// Commands are built with urfave/cli/v2 and share an Env holding the
// streams, the resolved configuration and the connection to the CMS:
//
//   - root.go: root app, global flags, configuration loading
//   - auth.go: login, logout, whoami, passwd
//   - resource.go: list/get/save/delete for every CMS resource
//   - config.go: config show, path and set
//   - system.go: version and metrics
//   - shell.go: the interactive shell
//
// Every API call runs through transport.Go so that Ctrl-C cancels the
// in-flight request.
package command
