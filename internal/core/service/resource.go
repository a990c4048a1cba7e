package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/transport"
)

// Executor sends built envelopes. *transport.Client implements it.
type Executor interface {
	// Execute sends env and returns the normalized success body.
	Execute(ctx context.Context, env *transport.Envelope, defaultMessage string) ([]byte, error)

	// Observe records an operation that failed before it could be sent.
	Observe(op transport.OpKind, resource string, err error)
}

// Messages are the failure messages used when the server sends none.
type Messages struct {
	List     string
	Retrieve string
	Save     string
	Delete   string
}

// ResourceConfig describes one REST resource.
type ResourceConfig struct {
	// Path is the plural path segment, e.g. "articles".
	Path string
	// ListKey is the envelope key of list responses.
	ListKey string
	// RecordKey is the envelope key of single-record responses.
	RecordKey string
	Messages  Messages
}

// Resource is a client for one REST resource. R is the full record, S the
// list item and In the save input.
type Resource[R, S any, In domain.Input] struct {
	cfg     ResourceConfig
	builder *transport.Builder
	exec    Executor
}

// NewResource creates a resource client.
func NewResource[R, S any, In domain.Input](cfg ResourceConfig, builder *transport.Builder, exec Executor) *Resource[R, S, In] {
	return &Resource[R, S, In]{cfg: cfg, builder: builder, exec: exec}
}

// Name returns the resource path segment.
func (r *Resource[R, S, In]) Name() string {
	return r.cfg.Path
}

// List fetches one page of records in the given language.
func (r *Resource[R, S, In]) List(ctx context.Context, lang domain.Language, page domain.Page) (domain.List[S], error) {
	query := url.Values{}
	if page.Page > 0 {
		query.Set("page", strconv.Itoa(page.Page))
	}
	if page.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(page.PageSize))
	}

	body, err := r.send(ctx, transport.OpList, "/"+r.cfg.Path, transport.BuildOptions{
		Query:    query,
		Language: lang,
	}, r.cfg.Messages.List)
	if err != nil {
		return domain.List[S]{Items: []S{}}, err
	}
	return transport.DecodeList[S](body, r.cfg.ListKey)
}

// Retrieve fetches one record. A response without the record key yields
// nil and no error.
func (r *Resource[R, S, In]) Retrieve(ctx context.Context, id string, lang domain.Language) (*R, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput.WithMessage("id is required")
	}

	body, err := r.send(ctx, transport.OpRetrieve, r.recordPath(id), transport.BuildOptions{
		Language: lang,
	}, r.cfg.Messages.Retrieve)
	if err != nil {
		return nil, err
	}
	return transport.DecodeOne[R](body, r.cfg.RecordKey)
}

// Save creates or updates a record and returns its id.
//
// An input with an id is sent as PUT and the input id is returned. An
// input without one is sent as POST and the id allocated by the server is
// returned verbatim.
func (r *Resource[R, S, In]) Save(ctx context.Context, in In) (string, error) {
	method := http.MethodPost
	if in.HasID() {
		method = http.MethodPut
	}

	body, err := r.send(ctx, transport.OpSave, "/admin/"+r.cfg.Path, transport.BuildOptions{
		Method:       method,
		RequiresAuth: true,
		JSON:         in,
	}, r.cfg.Messages.Save)
	if err != nil {
		return "", err
	}

	if in.HasID() {
		return in.RecordID(), nil
	}
	return transport.DecodeID(body)
}

// Delete removes a record.
func (r *Resource[R, S, In]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput.WithMessage("id is required")
	}

	_, err := r.send(ctx, transport.OpDelete, "/admin"+r.recordPath(id), transport.BuildOptions{
		RequiresAuth: true,
	}, r.cfg.Messages.Delete)
	return err
}

func (r *Resource[R, S, In]) recordPath(id string) string {
	return "/" + r.cfg.Path + "/" + url.PathEscape(id)
}

func (r *Resource[R, S, In]) send(ctx context.Context, op transport.OpKind, path string, opts transport.BuildOptions, msg string) ([]byte, error) {
	return send(ctx, r.builder, r.exec, r.cfg.Path, op, path, opts, msg)
}

// send builds and executes one envelope.
func send(ctx context.Context, b *transport.Builder, exec Executor, resource string, op transport.OpKind, path string, opts transport.BuildOptions, msg string) ([]byte, error) {
	opts.Resource = resource
	env, err := b.Build(op, path, opts)
	if err != nil {
		exec.Observe(op, resource, err)
		return nil, err
	}
	return exec.Execute(ctx, env, msg)
}
