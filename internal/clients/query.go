package clients

import (
	"net/url"
	"strings"

	"github.com/ViaQ/cloudflare-log-client/internal/params"
)

type QueryField struct {
	Key   string
	Value string
}

// QueryParameters holds the fields of a ParameterSet that are sent as the query string
type QueryParameters struct {
	Start string
	End   string
	// Count is only sent when HasCount is set
	Count    string
	HasCount bool
}

// QueryBuilder derives the query parameters of a request from a ParameterSet
type QueryBuilder func(params.ParameterSet) QueryParameters

// BuildQuery copies start, end and, when supplied, count out of set.
// No other key is ever copied
func BuildQuery(set params.ParameterSet) QueryParameters {
	q := QueryParameters{
		Start: set.Get(params.Start),
		End:   set.Get(params.End),
	}
	if set.Has(params.Count) {
		q.Count = set.Get(params.Count)
		q.HasCount = true
	}
	return q
}

// Fields returns the query fields in wire order: start, end, count
func (q QueryParameters) Fields() []QueryField {
	fields := []QueryField{
		{Key: params.Start, Value: q.Start},
		{Key: params.End, Value: q.End},
	}
	if q.HasCount {
		fields = append(fields, QueryField{Key: params.Count, Value: q.Count})
	}
	return fields
}

// Encode serializes the fields as key=value pairs joined by '&'. Unlike
// url.Values.Encode the field order is preserved.
func (q QueryParameters) Encode() string {
	var b strings.Builder
	for i, f := range q.Fields() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return b.String()
}
