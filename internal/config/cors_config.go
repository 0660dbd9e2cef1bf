package config

import "strings"

type Cors struct{}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

// The test page fetches the token endpoints from the browser, so the
// wildcard origin is allowed by default.
var allowedOrigins = AllowedOrigins{"*": nullValue{}}

func (Cors) GetAllowedOrigins() AllowedOrigins {
	return allowedOrigins
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}
