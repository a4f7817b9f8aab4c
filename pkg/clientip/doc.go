// Package clientip resolves the originating client address of a request.
//
// Proxy headers are trivially forged, so they are honored only when the
// immediate peer is a configured trusted proxy. For such a peer the Resolver
// checks CF-Connecting-IP, DO-Connecting-IP, X-Forwarded-For (right-most
// untrusted hop) and X-Real-IP before falling back to RemoteAddr. Invalid
// values are skipped, so a malformed header never shadows a good one.
// GetIP and Middleware trust no proxy and always use RemoteAddr.
//
// Middleware stores the address in the request context for FromContext, and
// LoggerExtractor attaches it to log records:
//
//	prefixes, err := clientip.ParseTrustedProxies([]string{"10.0.0.0/8"})
//	if err != nil {
//		return err
//	}
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
//	r.Use(clientip.NewResolver(prefixes...).Middleware)
//
// The contact module keys its submission rate limit by this address.
package clientip
