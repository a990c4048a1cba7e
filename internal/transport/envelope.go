package transport

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/session"
)

// Timeout classes.
const (
	DefaultTimeout = 5 * time.Second
	UploadTimeout  = 30 * time.Second
)

// APIPrefix is the path prefix of every API route.
const APIPrefix = "/api/v1"

// OpKind is the logical operation an envelope performs.
type OpKind int

const (
	OpList OpKind = iota
	OpRetrieve
	OpSave
	OpDelete
	OpUpload
	OpAction
)

func (k OpKind) String() string {
	switch k {
	case OpList:
		return "list"
	case OpRetrieve:
		return "retrieve"
	case OpSave:
		return "save"
	case OpDelete:
		return "delete"
	case OpUpload:
		return "upload"
	default:
		return "action"
	}
}

// IsRead reports whether the operation only reads records.
func (k OpKind) IsRead() bool {
	return k == OpList || k == OpRetrieve
}

func (k OpKind) defaultMethod() string {
	switch k {
	case OpList, OpRetrieve:
		return http.MethodGet
	case OpDelete:
		return http.MethodDelete
	default:
		return http.MethodPost
	}
}

// FormFile is one file part of a multipart body.
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Form is a multipart body. The executor writes the boundary and its
// Content-Type when sending.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

// BuildOptions are the per-call inputs of Builder.Build.
type BuildOptions struct {
	// Method overrides the default method of the operation kind.
	Method string
	Query  url.Values
	// Language is sent as Accept-Language on read operations.
	Language domain.Language
	// RequiresAuth attaches the credential header.
	RequiresAuth bool
	// JSON is marshaled as the request body. Mutually exclusive with Form.
	JSON any
	Form *Form
	// Timeout overrides the timeout class of the operation.
	Timeout time.Duration
	// Resource labels logs and metrics.
	Resource string
}

// Envelope is a fully built request. It is not modified after Build.
type Envelope struct {
	op        OpKind
	resource  string
	method    string
	url       string
	header    http.Header
	body      []byte
	form      *Form
	timeout   time.Duration
	requestID string
}

func (e *Envelope) Op() OpKind                  { return e.op }
func (e *Envelope) Resource() string            { return e.resource }
func (e *Envelope) Method() string              { return e.method }
func (e *Envelope) URL() string                 { return e.url }
func (e *Envelope) Body() []byte                { return e.body }
func (e *Envelope) Form() *Form                 { return e.form }
func (e *Envelope) Timeout() time.Duration      { return e.timeout }
func (e *Envelope) RequestID() string           { return e.requestID }
func (e *Envelope) Header() http.Header         { return e.header.Clone() }
func (e *Envelope) HeaderValue(k string) string { return e.header.Get(k) }

// Builder produces envelopes against one API base URL.
type Builder struct {
	baseURL       string
	tokens        session.TokenProvider
	userAgent     string
	timeout       time.Duration
	uploadTimeout time.Duration
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTimeouts overrides the timeout classes. Zero keeps the default.
func WithTimeouts(normal, upload time.Duration) BuilderOption {
	return func(b *Builder) {
		if normal > 0 {
			b.timeout = normal
		}
		if upload > 0 {
			b.uploadTimeout = upload
		}
	}
}

// WithUserAgent sets the User-Agent header value.
func WithUserAgent(ua string) BuilderOption {
	return func(b *Builder) {
		b.userAgent = ua
	}
}

// NewBuilder creates a builder for the given server. tokens may be nil,
// in which case every authenticated build fails as unauthenticated.
func NewBuilder(server string, tokens session.TokenProvider, opts ...BuilderOption) *Builder {
	b := &Builder{
		baseURL:       BaseURL(server),
		tokens:        tokens,
		userAgent:     "cmsadmin/dev",
		timeout:       DefaultTimeout,
		uploadTimeout: UploadTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BaseURL normalizes a server address into the API base URL.
func BaseURL(server string) string {
	base := strings.TrimRight(strings.TrimSpace(server), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	if !strings.HasSuffix(base, APIPrefix) {
		base += APIPrefix
	}
	return base
}

// BaseURL returns the API base URL of the builder.
func (b *Builder) BaseURL() string {
	return b.baseURL
}

// Build creates the envelope for one call. An authenticated operation
// without a session fails with domain.ErrUnauthenticated and no envelope.
func (b *Builder) Build(op OpKind, path string, opts BuildOptions) (*Envelope, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, domain.ErrInvalidInput.WithMessage(fmt.Sprintf("path %q must be absolute", path))
	}
	if opts.JSON != nil && opts.Form != nil {
		return nil, domain.ErrInvalidInput.WithMessage("request cannot carry both a JSON and a form body")
	}

	header := make(http.Header)

	if opts.RequiresAuth {
		if b.tokens == nil {
			return nil, domain.ErrUnauthenticated
		}
		value, err := b.tokens.AuthHeader()
		if err != nil {
			return nil, err
		}
		header.Set("Authorization", value)
	}

	env := &Envelope{
		op:       op,
		resource: opts.Resource,
		method:   opts.Method,
		url:      b.baseURL + path,
		header:   header,
		form:     opts.Form,
		timeout:  opts.Timeout,
	}
	if env.method == "" {
		env.method = op.defaultMethod()
	}
	if len(opts.Query) > 0 {
		env.url += "?" + opts.Query.Encode()
	}
	if env.timeout <= 0 {
		env.timeout = b.timeout
		if op == OpUpload {
			env.timeout = b.uploadTimeout
		}
	}

	if opts.JSON != nil {
		body, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, domain.ErrInvalidInput.WithCause(fmt.Errorf("marshal body: %w", err))
		}
		env.body = body
		header.Set("Content-Type", "application/json")
	}

	if op.IsRead() && opts.Language != "" {
		header.Set("Accept-Language", string(opts.Language))
	}

	requestID, err := domain.GenerateRequestID()
	if err != nil {
		return nil, fmt.Errorf("generate request id: %w", err)
	}
	env.requestID = requestID
	header.Set("X-Request-ID", requestID)
	header.Set("Accept", "application/json")
	header.Set("User-Agent", b.userAgent)

	return env, nil
}
