// Package connection opens the client stack described by the CLI
// configuration: durable session storage, TLS, transport and the
// service client, and closes it again.
package connection
