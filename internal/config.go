package internal

import "time"

// Options holds the process configuration set through flags. The key=value
// request arguments are carried separately in Args.
type Options struct {
	LogLevel             string
	APIURL               string
	DisableSecurityCheck bool
	Timeout              time.Duration
	ContinueOnError      bool
	MetricsFile          string
	Args                 []string `json:"-"`
}
