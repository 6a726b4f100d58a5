package params

import (
	"fmt"
	"strings"
)

const (
	Email       = "email"
	Key         = "key"
	Zone        = "zone"
	Start       = "start"
	End         = "end"
	Count       = "count"
	Destination = "destination"
	// URL is set once the request URL has been built
	URL = "url"
)

// Required lists the keys every invocation must supply
var Required = []string{Email, Key, Zone, Start, End}

// ParameterSet maps command line keys to their values
type ParameterSet map[string]string

// Has reports whether key was supplied, whatever its value
func (p ParameterSet) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p ParameterSet) Get(key string) string {
	return p[key]
}

type InvalidArgumentError struct {
	Token string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: expected key=value", e.Token)
}

// MissingArgumentError names the required keys absent from a ParameterSet
type MissingArgumentError struct {
	Missing []string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing command line argument(s): %s", strings.Join(e.Missing, ", "))
}

// Parse turns key=value tokens into a ParameterSet. Tokens are split on the
// first '=' only, so values may contain '='. A repeated key overwrites the
// earlier value. Only a token without any '=' is rejected.
func Parse(tokens []string) (ParameterSet, error) {
	set := make(ParameterSet, len(tokens))
	for _, token := range tokens {
		key, value, found := strings.Cut(token, "=")
		if !found {
			return nil, &InvalidArgumentError{Token: token}
		}
		set[key] = value
	}
	return set, nil
}

// CheckRequired returns set unchanged when every key in required is present.
// An empty value counts as present.
func CheckRequired(set ParameterSet, required []string) (ParameterSet, error) {
	var missing []string
	for _, key := range required {
		if !set.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingArgumentError{Missing: missing}
	}
	return set, nil
}
