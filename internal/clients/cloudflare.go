package clients

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/ViaQ/cloudflare-log-client/internal/params"
)

const (
	// APIHost is the host name of the Cloudflare API
	APIHost = "api.cloudflare.com"

	headerAuthEmail      = "X-Auth-Email"
	headerAuthKey        = "X-Auth-Key"
	headerContentType    = "Content-Type"
	headerAcceptEncoding = "Accept-Encoding"
)

// DefaultEndpoint is where request logs are fetched from unless overridden
var DefaultEndpoint = Endpoint{Scheme: "https", Host: APIHost}

// ConfigurationError is returned when a required collaborator was not supplied
type ConfigurationError struct {
	Component string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: no %s provided", e.Component)
}

type Endpoint struct {
	Scheme string
	Host   string
}

// ParseEndpoint reads an endpoint such as https://api.cloudflare.com
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid api url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Endpoint{}, fmt.Errorf("invalid api url %q: scheme and host are required", raw)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return Endpoint{}, fmt.Errorf("invalid api url %q: only scheme and host may be set", raw)
	}
	return Endpoint{Scheme: u.Scheme, Host: u.Host}, nil
}

// BuildURL composes the request logs URL of the zone in set, with the query
// string produced by build.
func (e Endpoint) BuildURL(set params.ParameterSet, build QueryBuilder) (string, error) {
	if build == nil {
		return "", &ConfigurationError{Component: "query builder"}
	}

	zone := set.Get(params.Zone)
	u := url.URL{
		Scheme:   e.Scheme,
		Host:     e.Host,
		Path:     "/client/v4/zones/" + zone + "/logs/requests",
		RawPath:  "/client/v4/zones/" + url.PathEscape(zone) + "/logs/requests",
		RawQuery: build(set).Encode(),
	}
	return u.String(), nil
}

func BuildURL(set params.ParameterSet, build QueryBuilder) (string, error) {
	return DefaultEndpoint.BuildURL(set, build)
}

// ProcessArgs parses tokens, checks the required keys are present and stores
// the request URL under params.URL.
func (e Endpoint) ProcessArgs(tokens, required []string) (params.ParameterSet, error) {
	set, err := params.Parse(tokens)
	if err != nil {
		return nil, err
	}

	set, err = params.CheckRequired(set, required)
	if err != nil {
		return nil, err
	}

	u, err := e.BuildURL(set, BuildQuery)
	if err != nil {
		return nil, err
	}
	set[params.URL] = u

	return set, nil
}

func ProcessArgs(tokens, required []string) (params.ParameterSet, error) {
	return DefaultEndpoint.ProcessArgs(tokens, required)
}

// RequestOptions is everything the transport needs to issue the request
type RequestOptions struct {
	URL     string
	Headers http.Header
}

// NewRequestOptions combines the URL stored in set with the authentication
// headers taken from it and the fixed content negotiation headers.
func NewRequestOptions(set params.ParameterSet) RequestOptions {
	headers := make(http.Header, 4)
	headers.Set(headerAuthEmail, set.Get(params.Email))
	headers.Set(headerAuthKey, set.Get(params.Key))
	headers.Set(headerContentType, "application/json")
	headers.Set(headerAcceptEncoding, "gzip")

	return RequestOptions{
		URL:     set.Get(params.URL),
		Headers: headers,
	}
}
