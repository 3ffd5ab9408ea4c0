// Package twitter implements the authenticated deletion transport for the
// v2 API: OAuth1 request signing and the mapping from HTTP responses to
// rate-limit signals. It is the only package that touches credentials.
package twitter
