package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/ViaQ/cloudflare-log-client/internal/clients"
)

// State describes where a download currently is
type State int

const (
	Idle State = iota
	Requesting
	Writing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Writing:
		return "writing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SinkError reports a destination that could not be opened, written or closed
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("unable to write logs to %s: %v", e.Path, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

type SinkOpener func(path string) (io.WriteCloser, error)

type Options struct {
	Request clients.RequestOptions
	// Destination is the output path, generated from the start time when empty
	Destination string
}

type Result struct {
	Path  string
	Bytes int64
}

// Downloader fetches one response body and streams it to a file
type Downloader struct {
	opts     Options
	client   clients.Doer
	log      logrus.FieldLogger
	metrics  *metrics
	now      func() time.Time
	openSink SinkOpener

	mu    sync.Mutex
	state State
}

// DefaultDestination returns the file name used when no destination is given
func DefaultDestination(t time.Time) string {
	return fmt.Sprintf("logs_%d.json.gz", t.UnixMilli())
}

// New creates a Downloader. Metrics are registered with registry when it is not nil.
func New(opts Options, client clients.Doer, log logrus.FieldLogger, registry prometheus.Registerer) *Downloader {
	return &Downloader{
		opts:     opts,
		client:   client,
		log:      log.WithField("component", "downloader"),
		metrics:  newMetrics(registry),
		now:      time.Now,
		openSink: createFile,
	}
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func (d *Downloader) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Downloader) setState(s State) {
	d.mu.Lock()
	prev := d.state
	d.state = s
	d.mu.Unlock()
	d.log.Debugf("download state %s -> %s", prev, s)
}

// Download performs the request and writes the body to the destination.
// The body is copied as it arrives; it is never buffered in full.
// Failures are *clients.TransportError or *SinkError.
func (d *Downloader) Download(ctx context.Context) (Result, error) {
	dest := d.opts.Destination
	if dest == "" {
		dest = DefaultDestination(d.now())
	}
	result := Result{Path: dest}

	d.setState(Requesting)
	start := time.Now()
	resp, err := clients.Fetch(ctx, d.client, d.opts.Request)
	d.metrics.requestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return result, d.fail(resultTransportError, err)
	}
	defer resp.Body.Close()

	d.setState(Writing)
	sink, err := d.openSink(dest)
	if err != nil {
		return result, d.fail(resultSinkError, &SinkError{Path: dest, Err: err})
	}

	w := &countingWriter{w: sink}
	_, copyErr := io.Copy(w, resp.Body)
	closeErr := sink.Close()
	result.Bytes = w.n
	d.metrics.bytesWritten.Add(float64(w.n))

	switch {
	case w.err != nil:
		return result, d.fail(resultSinkError, &SinkError{Path: dest, Err: w.err})
	case copyErr != nil:
		return result, d.fail(resultTransportError, &clients.TransportError{URL: d.opts.Request.URL, Err: copyErr})
	case closeErr != nil:
		return result, d.fail(resultSinkError, &SinkError{Path: dest, Err: closeErr})
	}

	d.setState(Done)
	d.metrics.downloads.WithLabelValues(resultSuccess).Inc()
	d.log.Infof("wrote %d bytes to %s", w.n, dest)
	return result, nil
}

func (d *Downloader) fail(label string, err error) error {
	d.setState(Failed)
	d.metrics.downloads.WithLabelValues(label).Inc()
	return err
}

// Start runs the download in the background, reporting its error on errCh
func (d *Downloader) Start(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := d.Download(ctx); err != nil {
			errCh <- err
		}
	}()
}

// countingWriter remembers write errors so they can be told apart from
// errors reading the response body.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil {
		c.err = err
	}
	return n, err
}
