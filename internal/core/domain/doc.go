// Package domain defines the core domain models for the CMS admin client.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - Session: the authenticated identity returned by login
//   - Records: Home, Service, Article, Member, Category and Contact payloads
//   - Inputs: flat save payloads whose id selects create or update
//   - Failure: the error taxonomy every API operation resolves to
package domain
