package common

type httpClientKeyType struct{}

// HttpClientKey overrides the http.Client used for outgoing requests when set
// on a context. Mainly useful in tests.
var HttpClientKey httpClientKeyType
