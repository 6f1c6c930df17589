// Package status classifies HTTP status codes and describes them.
//
// A code is either Successful (2xx), Failed (4xx/5xx) or Unhandled. The
// description table covers the IANA-registered codes; unknown codes get a
// synthesized "Unidentified error status code N" description.
package status
