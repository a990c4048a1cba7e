// Package service provides the typed API clients of the CMS.
//
// Resource is the generic list/retrieve/save/delete client. Home,
// Services, Articles, Members, Categories and Contact are its concrete
// instances; Articles and Members add their resource-specific actions.
// Users handles login, logout and password changes, and Client bundles
// everything around one Session Store.
//
// Reads are public. Writes need a session and fail with
// domain.ErrUnauthenticated before any request is sent when none exists.
package service
