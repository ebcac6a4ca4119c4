// Package service contains the use cases of the wildlife CMS: the article
// lifecycle, authentication, the user directory and media uploads.
//
// Services depend on the store interfaces and never on a concrete database.
// Every operation that acts on behalf of a caller takes the caller's
// *domain.Principal explicitly; a nil principal is an anonymous caller.
// Timestamps come from an injected clock so behaviour can be tested with
// fixed times.
package service
