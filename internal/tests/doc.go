// Package tests holds end-to-end tests that drive the full client stack
// (configuration, durable session, transport, resource clients) against
// an in-process fake CMS.
package tests
