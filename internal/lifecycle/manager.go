// Package lifecycle owns the booking state machine: the rules that move a
// booking from pending through approved to confirmed and the member, role and
// payment side effects each transition carries.
//
// The Directory and Ledger stores offer per-document atomicity only, so every
// multi-step transition is a sequence of locally committed steps. A failing
// step is reported as a *StepError naming what already committed; nothing is
// rolled back.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
)

const tracerName = "github.com/magzhanmnazhatdin/courtclub/internal/lifecycle"

const defaultCurrency = "usd"

type Manager struct {
	directory store.Directory
	ledger    store.Ledger
	log       *slog.Logger
	now       func() time.Time
	tracer    trace.Tracer
	currency  string
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) { m.tracer = t }
}

// WithCurrency sets the currency recorded on payments that carry none.
func WithCurrency(c string) Option {
	return func(m *Manager) {
		if c != "" {
			m.currency = strings.ToLower(c)
		}
	}
}

func New(directory store.Directory, ledger store.Ledger, opts ...Option) *Manager {
	m := &Manager{
		directory: directory,
		ledger:    ledger,
		log:       slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
		tracer:    otel.Tracer(tracerName),
		currency:  defaultCurrency,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StepError reports a store failure inside an operation. Completed lists the
// steps that had already committed and stay committed.
type StepError struct {
	Transition string
	Step       string
	Completed  []string
	Err        error
}

func (e *StepError) Error() string {
	if len(e.Completed) == 0 {
		return fmt.Sprintf("%s: %s: %v", e.Transition, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %s failed after [%s]: %v",
		e.Transition, e.Step, strings.Join(e.Completed, ", "), e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{domain.ErrStore, e.Err}
}

// Partial reports whether some steps committed before the failure.
func (e *StepError) Partial() bool {
	return len(e.Completed) > 0
}

// isKind reports whether err already carries a domain error kind and can be
// returned to the caller as-is.
func isKind(err error) bool {
	for _, kind := range []error{domain.ErrValidation, domain.ErrNotFound, domain.ErrConflict, domain.ErrForbidden} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// run tracks the committed steps of one transition.
type run struct {
	m         *Manager
	ctx       context.Context
	span      trace.Span
	name      string
	bookingID string
	completed []string
}

func (m *Manager) begin(ctx context.Context, name, bookingID string) (*run, context.Context) {
	ctx, span := m.tracer.Start(ctx, "lifecycle."+name,
		trace.WithAttributes(attribute.String("booking.id", bookingID)))
	return &run{m: m, ctx: ctx, span: span, name: name, bookingID: bookingID}, ctx
}

func (r *run) done(step string) {
	r.completed = append(r.completed, step)
	r.span.AddEvent(step)
}

// fail wraps err as a StepError unless it is already a domain kind, and logs
// a partial completion so operators can reconcile.
func (r *run) fail(step string, err error) error {
	if !isKind(err) {
		err = &StepError{
			Transition: r.name,
			Step:       step,
			Completed:  append([]string(nil), r.completed...),
			Err:        err,
		}
	}
	if len(r.completed) > 0 {
		r.m.log.WarnContext(r.ctx, "transition partially applied",
			slog.String("transition", r.name),
			slog.String("booking_id", r.bookingID),
			slog.String("failed_step", step),
			slog.Any("completed_steps", r.completed),
			slog.String("error", err.Error()),
		)
	}
	r.span.RecordError(err)
	r.span.SetStatus(codes.Error, err.Error())
	return err
}

func (r *run) end() {
	r.span.End()
}
