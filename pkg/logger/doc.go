// Package logger builds *slog.Logger instances for the service.
//
// New creates a text or JSON logger configured by functional options and wraps
// its handler with LogHandlerDecorator, which pulls request-scoped attributes
// (such as the request id) out of the record's context on every call.
//
// Attribute helpers in attr.go keep key names consistent across packages:
//
//	log.InfoContext(ctx, "submission sent",
//	    logger.Component("contact"),
//	    logger.FormID(id),
//	    logger.Outcome("sent"),
//	)
//
// Error and FormID return an empty Attr for zero values, which slog drops, so
// they can be passed without a nil check.
//
// Components that accept an optional logger fall back to Discard.
package logger
