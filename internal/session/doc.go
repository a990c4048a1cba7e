// Package session owns the authenticated identity of the running client.
//
// A Store holds at most one Session, notifies subscribers synchronously on
// every change, and, once Persist has been called, mirrors every change to
// a durable KV engine. The TokenProvider derives the Authorization header
// from the Store on every request.
package session
