// Package pi provides implementations for computing π to arbitrary decimal
// precision. It exposes a `Calculator` interface that abstracts the
// underlying series and evaluation policy, allowing different strategies
// (BBP direct summation, Chudnovsky direct summation, Chudnovsky binary
// splitting) to be used interchangeably. The package integrates parallel
// term evaluation, exact-integer range merging and deterministic digit
// rendering.
package pi

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

var (
	computationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pi_computations_total",
			Help: "The total number of pi computations processed",
		},
		[]string{"algorithm", "status"},
	)
	computationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pi_computation_duration_seconds",
			Help: "The duration of pi computations in seconds",
		},
		[]string{"algorithm"},
	)
)

// Calculator defines the public interface for a π calculator.
// It is the primary abstraction used by the application's orchestration
// layer to interact with the available computation strategies.
type Calculator interface {
	// Compute produces an approximation of π correct to the requested number
	// of fractional decimal digits. It is designed for safe concurrent
	// execution and supports cancellation through the provided context.
	// Progress updates are sent asynchronously to the progressChan.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - progressChan: The channel for sending progress updates.
	//   - calcIndex: A unique index for the calculator instance.
	//   - digits: The number of correct fractional digits requested.
	//   - opts: Configuration options for the computation.
	//
	// Returns:
	//   - *Approximation: The computed value.
	//   - error: An error if one occurred (e.g., context cancellation).
	Compute(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, digits uint64, opts Options) (*Approximation, error)

	// Name returns the display name of the computation strategy.
	//
	// Returns:
	//   - string: The name of the strategy.
	Name() string
}

// coreCalculator defines the internal interface for a pure computation
// strategy.
type coreCalculator interface {
	ComputeCore(ctx context.Context, reporter ProgressReporter, digits uint64, opts Options) (*Approximation, error)
	Name() string
}

// PiCalculator is an implementation of the Calculator interface that uses
// the Decorator design pattern.
// It wraps a coreCalculator to add cross-cutting concerns: progress
// adaptation, tracing, metrics and completion logging.
type PiCalculator struct {
	core coreCalculator
}

// NewCalculator is a factory function that constructs and returns a new
// PiCalculator.
// It takes a coreCalculator as input, which represents the specific
// computation strategy to be used. This function panics if the core
// calculator is nil, ensuring system integrity.
//
// Parameters:
//   - core: The core calculator to be wrapped.
//
// Returns:
//   - Calculator: A new PiCalculator instance implementing the Calculator interface.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("pi: the `coreCalculator` implementation cannot be nil")
	}
	return &PiCalculator{core: core}
}

// Name returns the name of the encapsulated coreCalculator, fulfilling the
// Calculator interface by delegating the call.
//
// Returns:
//   - string: The name of the strategy.
func (c *PiCalculator) Name() string {
	return c.core.Name()
}

// Compute orchestrates the computation process.
// It adapts the progressChan into a ProgressReporter callback and delegates
// the core computation to the wrapped coreCalculator, ensuring that progress
// is reported completely upon successful completion.
//
// This method provides channel-based progress reporting. For more flexible
// observer-based progress reporting, use ComputeWithObservers.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - progressChan: The channel for sending progress updates.
//   - calcIndex: A unique index for the calculator instance.
//   - digits: The number of correct fractional digits requested.
//   - opts: Configuration options for the computation.
//
// Returns:
//   - *Approximation: The computed value.
//   - error: An error if one occurred.
func (c *PiCalculator) Compute(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, digits uint64, opts Options) (*Approximation, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return c.ComputeWithObservers(ctx, subject, calcIndex, digits, opts)
}

// ComputeWithObservers executes the computation with observer-based progress
// reporting. This method allows for dynamic registration of multiple
// progress observers, enabling decoupled handling of progress events for UI,
// logging, metrics, etc.
//
// Use this method when you need to register multiple observers or when you
// want to use custom observer implementations. For simple channel-based
// reporting, use the Compute method instead.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - subject: The progress subject with registered observers. If nil, progress is ignored.
//   - calcIndex: A unique index for the calculator instance.
//   - digits: The number of correct fractional digits requested.
//   - opts: Configuration options for the computation.
//
// Returns:
//   - *Approximation: The computed value.
//   - error: An error if one occurred.
func (c *PiCalculator) ComputeWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, digits uint64, opts Options) (result *Approximation, err error) {
	tracer := otel.Tracer("pi")
	ctx, span := tracer.Start(ctx, "Compute")
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		algoName := c.core.Name()
		computationsTotal.WithLabelValues(algoName, status).Inc()
		computationDuration.WithLabelValues(algoName).Observe(duration)

		log.Debug().
			Str("algo", algoName).
			Uint64("digits", digits).
			Float64("duration", duration).
			Str("status", status).
			Msg("computation completed")
	}()

	var reporter ProgressReporter
	if subject != nil {
		reporter = subject.AsProgressReporter(calcIndex)
	} else {
		reporter = func(float64) {}
	}

	result, err = c.core.ComputeCore(ctx, reporter, digits, opts)
	if err == nil && result != nil {
		reporter(1.0)
	}
	return result, err
}
