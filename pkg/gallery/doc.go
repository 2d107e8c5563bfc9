// Package gallery provides the HTTP client for sites whose image URLs
// follow the nested numeric pattern base/prefix_N/M.ext.
//
// The client performs plain GET requests with a fixed timeout and maps
// non-success responses to typed errors from pkg/errors. It sends no
// cookies and performs no authentication or retries.
package gallery
