// Package schemaform turns schema definitions into rendered HTML forms with
// server and client side validation. The Engine wires the pipeline together:
// a schema provider feeds the catalog, the catalog feeds the renderer, and
// validators reuse the same schema constraints.
package schemaform

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-schemaform/pkg/catalog"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/themes"
	"github.com/goliatone/go-schemaform/pkg/validate"
	"github.com/goliatone/go-schemaform/pkg/visibility"
)

// Engine coordinates schema resolution, rendering, and validation. Construct
// one per application; it is safe for concurrent use.
type Engine struct {
	provider schema.Provider
	catalog  *catalog.Catalog
	renderer *render.FieldRenderer
	themes   *themes.Registry
	selector *themes.ManifestSelector
	checker  *validate.SchemaChecker
	live     *validate.LiveValidator
	visible  *visibility.Evaluator
	logger   *logrus.Logger

	defaultTheme string
	liveEndpoint string
	translator   render.Translator

	mu    sync.RWMutex
	forms map[string]*validate.FormValidator
}

// Option configures an Engine.
type Option func(*Engine)

// WithProvider sets the schema source. Required.
func WithProvider(provider schema.Provider) Option {
	return func(e *Engine) { e.provider = provider }
}

// WithLogger sets the structured logger. Without it the engine stays silent.
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithThemeRegistry replaces the built-in theme registry.
func WithThemeRegistry(registry *themes.Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.themes = registry
		}
	}
}

// WithDefaultTheme names the theme used when a request does not pick one.
func WithDefaultTheme(name string) Option {
	return func(e *Engine) { e.defaultTheme = name }
}

// WithManifestSelector enables manifest-driven theme decoration: selected
// manifests contribute stylesheets, scripts, and token CSS variables.
func WithManifestSelector(selector *themes.ManifestSelector) Option {
	return func(e *Engine) { e.selector = selector }
}

// WithKindRegistry replaces the input kind resolution registry.
func WithKindRegistry(kinds *render.KindRegistry) Option {
	return func(e *Engine) { e.renderer = render.NewFieldRenderer(kinds) }
}

// WithLiveValidation wires htmx live validation attributes into rendered
// controls, posting to endpoint + "/" + field name.
func WithLiveValidation(validator *validate.LiveValidator, endpoint string) Option {
	return func(e *Engine) {
		e.live = validator
		e.liveEndpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithTranslator localizes *_key hint attributes for requests that set a
// locale.
func WithTranslator(translator render.Translator) Option {
	return func(e *Engine) { e.translator = translator }
}

// New constructs an Engine.
func New(options ...Option) *Engine {
	e := &Engine{
		renderer:     render.NewFieldRenderer(nil),
		themes:       themes.NewRegistry(),
		checker:      validate.NewSchemaChecker(),
		visible:      visibility.New(),
		logger:       silentLogger(),
		defaultTheme: "bootstrap",
		forms:        make(map[string]*validate.FormValidator),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	e.catalog = catalog.New(e.provider)
	return e
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Request describes one form generation call.
type Request struct {
	// Type names the schema to render. Required.
	Type string

	// Values prefills controls. Form, when set, is parsed into Values first.
	Values map[string]any
	Form   url.Values

	// Errors carries server-side validation feedback keyed by field path.
	Errors map[string][]string

	// Form chrome.
	Action       string
	Method       string
	SubmitLabel  string
	Hidden       map[string]string
	Fields       []string
	ErrorSummary bool

	// Theme and Variant select the visual skin. Empty means the default.
	Theme   string
	Variant string

	// Locale activates hint translation when the engine has a translator.
	Locale string
}

// Result is the outcome of an asynchronous generation.
type Result struct {
	HTML string
	Err  error
}

// Generate renders the full form document for a request: stylesheet and
// token assets first, then the form with its scripts.
func (e *Engine) Generate(ctx context.Context, req Request) (string, error) {
	if e == nil || e.provider == nil {
		return "", fmt.Errorf("schemaform: engine has no schema provider")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Type) == "" {
		return "", fmt.Errorf("schemaform: request type is required")
	}

	meta, err := e.catalog.Resolve(req.Type)
	if err != nil {
		return "", fmt.Errorf("schemaform: resolve %q: %w", req.Type, err)
	}

	theme := e.activeTheme(req)
	renderCtx := e.renderContext(req, meta, theme)

	var b strings.Builder
	for _, sheet := range theme.Stylesheets() {
		b.WriteString(sheet)
		b.WriteByte('\n')
	}
	b.WriteString(e.renderer.RenderForm(meta, renderCtx, render.FormOptions{
		Action:       req.Action,
		Method:       req.Method,
		SubmitLabel:  req.SubmitLabel,
		Hidden:       req.Hidden,
		Fields:       req.Fields,
		ErrorSummary: req.ErrorSummary,
	}))
	if e.live != nil {
		b.WriteString(e.live.Script())
		b.WriteByte('\n')
	}

	e.logger.WithFields(logrus.Fields{
		"type":   req.Type,
		"theme":  theme.Name(),
		"fields": len(meta.Fields),
	}).Debug("form generated")

	return b.String(), nil
}

// GenerateAsync renders on a separate goroutine. The returned channel
// receives exactly one Result; cancelling the context abandons the wait but
// does not stop an in-flight render.
func (e *Engine) GenerateAsync(ctx context.Context, req Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		html, err := e.Generate(ctx, req)
		out <- Result{HTML: html, Err: err}
	}()
	return out
}

func (e *Engine) activeTheme(req Request) render.Theme {
	name := req.Theme
	if name == "" {
		name = e.defaultTheme
	}
	theme := e.themes.Get(name)

	if e.selector != nil {
		selection, err := e.selector.Select(name, req.Variant)
		if err != nil {
			e.logger.WithError(err).WithField("theme", name).Warn("theme selection failed")
			return theme
		}
		theme = themes.Decorate(theme, themes.RendererConfig(selection))
	}
	return theme
}

func (e *Engine) renderContext(req Request, meta *catalog.Metadata, theme render.Theme) *render.Context {
	values := req.Values
	if values == nil && req.Form != nil {
		values = render.ParseSubmission(req.Form)
	}

	mapping := render.MapErrorPayload(meta, req.Errors)
	errs := mapping.Flatten()
	if len(mapping.Form) > 0 {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs["form"] = strings.Join(mapping.Form, "; ")
	}

	ctx := &render.Context{
		Values:     values,
		Errors:     errs,
		Defs:       meta.Defs,
		Theme:      theme,
		Locale:     req.Locale,
		Visibility: e.visible.EvalFunc(),
	}
	if req.Locale != "" {
		ctx.Translator = e.translator
	}
	if e.live != nil {
		ctx.LiveAttrs = func(field string) string {
			return e.live.Attributes(e.liveEndpoint, field)
		}
	}
	return ctx
}

// RegisterFormValidator attaches rule-based validation to a schema type so
// Validate runs it alongside the schema constraint check.
func (e *Engine) RegisterFormValidator(schemaType string, form *validate.FormValidator) {
	if form == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.forms[schemaType] = form
}

// Validate checks a submission against the schema constraints and any
// registered rule validator. The error map merges both sources.
func (e *Engine) Validate(schemaType string, data map[string]any) (bool, map[string][]string, error) {
	if e == nil || e.provider == nil {
		return false, nil, fmt.Errorf("schemaform: engine has no schema provider")
	}
	root, err := e.provider.Lookup(schemaType)
	if err != nil {
		return false, nil, fmt.Errorf("schemaform: resolve %q: %w", schemaType, err)
	}

	ok, errs, err := e.checker.Check(schemaType, root, data)
	if err != nil {
		return false, nil, err
	}

	e.mu.RLock()
	form := e.forms[schemaType]
	e.mu.RUnlock()
	if form != nil {
		ruleOK, ruleErrs := form.Validate(data)
		for field, messages := range ruleErrs {
			errs = mergeFieldErrors(errs, field, messages)
		}
		if !ruleOK {
			ok = false
		}
	}

	if len(errs) == 0 {
		errs = nil
	}
	return ok, errs, nil
}

// ValidateSubmission parses a raw form submission and validates it.
func (e *Engine) ValidateSubmission(schemaType string, form url.Values) (bool, map[string][]string, error) {
	return e.Validate(schemaType, render.ParseSubmission(form))
}

// Invalidate drops cached schema metadata and compiled validators, forcing a
// rebuild on next use. Call it after the provider's schemas change.
func (e *Engine) Invalidate() {
	e.catalog.Invalidate()
	e.checker.Invalidate()
}

func mergeFieldErrors(errs map[string][]string, field string, messages []string) map[string][]string {
	if errs == nil {
		errs = make(map[string][]string)
	}
	for _, msg := range messages {
		exists := false
		for _, have := range errs[field] {
			if have == msg {
				exists = true
				break
			}
		}
		if !exists {
			errs[field] = append(errs[field], msg)
		}
	}
	return errs
}
