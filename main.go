package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ViaQ/cloudflare-log-client/internal"
	"github.com/ViaQ/cloudflare-log-client/internal/clients"
	"github.com/ViaQ/cloudflare-log-client/internal/downloader"
	"github.com/ViaQ/cloudflare-log-client/internal/params"
)

const (
	exitFailure = 1
	exitUsage   = 2

	envAuthEmail = "CF_AUTH_EMAIL"
	envAuthKey   = "CF_AUTH_KEY"
)

func main() {
	opts := internal.Options{}
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	registerFlags(flags, &opts)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] email=<email> key=<api key> zone=<zone id> start=<ts> end=<ts> [count=<n>] [destination=<path>]\n\n", os.Args[0])
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])
	opts.Args = flags.Args()

	setupLogging(opts.LogLevel)
	os.Exit(run(opts))
}

func registerFlags(flags *pflag.FlagSet, opts *internal.Options) {
	flags.StringVar(&opts.LogLevel, "log-level", "info", "Overwrite to control the level of logs emitted. Allowed values: debug, info, warning, error")
	flags.StringVar(&opts.APIURL, "api-url", "https://api.cloudflare.com", "Scheme and host of the Cloudflare API.")
	flags.BoolVar(&opts.DisableSecurityCheck, "disable-security-check", false, "Disable security check in HTTPS client.")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "Deadline for the whole download. Zero means no deadline.")
	flags.BoolVar(&opts.ContinueOnError, "continue-on-error", false, "Only log request and write failures instead of exiting with an error.")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "Write download metrics in Prometheus text format to this file on exit.")
}

func setupLogging(level string) {
	ll, err := log.ParseLevel(level)
	if err != nil {
		ll = log.ErrorLevel
	}

	log.SetOutput(os.Stderr)
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
}

// withEnvCredentials puts credentials found in the environment in front of
// the command line tokens, so tokens given explicitly still take precedence.
func withEnvCredentials(tokens []string) []string {
	var env []string
	if v, ok := os.LookupEnv(envAuthEmail); ok {
		env = append(env, params.Email+"="+v)
	}
	if v, ok := os.LookupEnv(envAuthKey); ok {
		env = append(env, params.Key+"="+v)
	}
	return append(env, tokens...)
}

func run(opts internal.Options) int {
	if configJSON, err := json.MarshalIndent(opts, "", "\t"); err == nil {
		log.Debugf("configuration:\n%s\n", configJSON)
	}

	endpoint, err := clients.ParseEndpoint(opts.APIURL)
	if err != nil {
		log.Error(err)
		return exitUsage
	}

	set, err := endpoint.ProcessArgs(withEnvCredentials(opts.Args), params.Required)
	if err != nil {
		log.Error(err)
		return exitUsage
	}

	httpClient, err := clients.NewHTTPClient(opts.DisableSecurityCheck, opts.Timeout)
	if err != nil {
		log.Errorf("unable to create http client: %v", err)
		return exitUsage
	}

	registry := prometheus.NewRegistry()
	components := []internal.Component{
		downloader.New(downloader.Options{
			Request:     clients.NewRequestOptions(set),
			Destination: set.Get(params.Destination),
		}, httpClient, log.StandardLogger(), registry),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	wg := &sync.WaitGroup{}
	errCh := make(chan error, 1)
	done := make(chan struct{})
	var failures []error

	go func() {
		defer close(done)
		for err := range errCh {
			failures = append(failures, err)
			if opts.ContinueOnError {
				log.Warnf("ignoring download error: %v", err)
				continue
			}
			log.Errorf("Fatal error: %v", err)
			cancel()
		}
	}()

	for _, c := range components {
		c.Start(ctx, wg, errCh)
	}

	log.Debug("All components running.")
	wg.Wait()
	close(errCh)
	<-done
	log.Debug("All components stopped.")

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, registry); err != nil {
			log.Errorf("unable to write metrics to %s: %v", opts.MetricsFile, err)
		}
	}

	return exitCode(failures, opts.ContinueOnError)
}

func exitCode(failures []error, continueOnError bool) int {
	if len(failures) == 0 || continueOnError {
		return 0
	}
	var cfgErr *clients.ConfigurationError
	if errors.As(failures[0], &cfgErr) {
		return exitUsage
	}
	return exitFailure
}
