// Package observability builds the dashboard's structured logger.
//
// Components receive a *zap.Logger by injection. Request handlers derive a
// request-scoped logger with ForRequest so every line carries request_id.
package observability
