// Package archive provides the leaf stages of a single page web archiver and
// assembles them into a stagez pipeline:
//
//	Constant(target) ─┬─ URLPath ─[Log]──────────────┐
//	                  └─ Fetch ⟶ Body ─[Limit]───────┴─⟶ Store
//
// Each leaf maps its own failures into the stagez taxonomy: transport
// failures are network errors, filesystem failures are I/O errors, and
// everything else (bad status, missing host) is an other error wrapping the
// cause.
package archive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/zoobzio/stagez"
)

// Stage names of the assembled tree.
const (
	PipelineName stagez.Name = "archive"
	TargetName   stagez.Name = "target"
	PathName     stagez.Name = "path"
	DownloadName stagez.Name = "download"
	FetchBody    stagez.Name = "fetch-body"
	DocumentName stagez.Name = "document"
)

type closer interface {
	Close() error
}

// Pipeline archives one URL. It owns the connectors it was built from.
type Pipeline struct {
	root    stagez.Stage[stagez.Unit, stagez.Unit]
	path    *stagez.Chain[url.URL, string]
	body    *stagez.Chain[url.URL, io.ReadCloser]
	closers []closer
}

// Build assembles the archive pipeline for target from cfg. The path branch
// logs derived paths when cfg.Verbose is set; the download branch is capped
// at cfg.Limit bytes when it is positive.
func Build(target url.URL, cfg Config, client *http.Client, logger zerolog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	store, err := NewStore(cfg.Dir)
	if err != nil {
		return nil, stagez.NewIOError(StoreName, err)
	}

	fetchBody := stagez.NewThen(FetchBody, Fetch(client, cfg.UserAgent), Body())

	path := stagez.NewChain(PathName, URLPath()).
		If(cfg.Verbose, Log[string](logger, "path-log"))
	body := stagez.NewChain(DownloadName, fetchBody).
		If(cfg.Limit > 0, Limit(cfg.Limit))

	document := stagez.NewZip(DocumentName, stagez.Constant(TargetName, target), path, body).
		WithClone(func(u url.URL) url.URL {
			if u.User != nil {
				user := *u.User
				u.User = &user
			}
			return u
		})

	root := stagez.NewThen(PipelineName, document, store)

	return &Pipeline{
		root:    root,
		path:    path,
		body:    body,
		closers: []closer{root, document, body, path, fetchBody},
	}, nil
}

// Process runs the pipeline once. The returned error is the exact
// *stagez.Error produced by the failing leaf.
func (p *Pipeline) Process(ctx context.Context, in stagez.Unit) (stagez.Unit, error) {
	return p.root.Process(ctx, in)
}

// Name implements stagez.Stage.
func (*Pipeline) Name() stagez.Name {
	return PipelineName
}

// Stages returns the names of the path and download chains, in order.
func (p *Pipeline) Stages() (path, download []stagez.Name) {
	return p.path.Names(), p.body.Names()
}

// Close releases the observability resources of every connector.
func (p *Pipeline) Close() error {
	errs := make([]error, 0, len(p.closers))
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
