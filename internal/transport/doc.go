// Package transport turns logical API operations into HTTP exchanges.
//
// A Builder produces an immutable Envelope per call (method, URL, headers,
// body and timeout). A Client executes it under the envelope deadline and
// the response is normalized into either raw success bytes or a
// *domain.Failure. DecodeOne, DecodeList and DecodeID unwrap the success
// body by envelope key.
//
// Go and Pending adapt any blocking operation into a single-value stream
// that can be awaited or cancelled.
package transport
