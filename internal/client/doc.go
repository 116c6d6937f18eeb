// Package client talks to the conversion service over HTTP.
//
// Every endpoint is resolved against the configured base URL. Requests carry
// an X-Request-ID that is also logged as the correlation id. A response
// outside 2xx becomes a *StatusError whose body is logged at debug level and
// which unwraps to the sentinel for its endpoint family: ErrSubmissionFailed
// for job submission and worker configuration, ErrFetchFailed for snapshot,
// download and version reads, ErrConversionFailed for the synchronous
// conversion and colour endpoints.
package client
