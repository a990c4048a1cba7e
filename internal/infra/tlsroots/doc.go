// Package tlsroots builds the TLS configuration used to reach HTTPS CMS
// servers.
//
//   - roots.go: system roots plus custom CA files or directories
//   - watcher.go: client certificate reload via fsnotify
package tlsroots
