package pi

import (
	"context"
	"sort"
)

// MockCalculator is a mock implementation of the Calculator interface.
// It is exported to allow external packages (like cmd/picalc) to use it for
// testing.
type MockCalculator struct {
	Result *Approximation
	Err    error
	Fn     func(ctx context.Context, digits uint64) (*Approximation, error)
}

// Name returns the calculator name.
func (m *MockCalculator) Name() string {
	return "mock"
}

// Compute returns the pre-configured Result and Err, or calls Fn if provided.
func (m *MockCalculator) Compute(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, digits uint64, opts Options) (*Approximation, error) {
	if m.Fn != nil {
		return m.Fn(ctx, digits)
	}
	if progressChan != nil {
		progressChan <- ProgressUpdate{CalculatorIndex: calcIndex, Value: 1.0}
	}
	return m.Result, m.Err
}

// MockApproximation builds an Approximation for the given digit count by
// running the binary-splitting path synchronously. Intended for tests that
// need a realistic value without going through a Calculator.
func MockApproximation(digits uint64) *Approximation {
	plan, err := Plan(digits, AlgorithmChudnovskySplit, Options{})
	if err != nil {
		panic(err)
	}
	res, err := Split(0, plan.Terms)
	if err != nil {
		panic(err)
	}
	return assembleBinarySplit(res, plan)
}

// TestFactory is a CalculatorFactory implementation designed for testing.
// It allows tests in other packages to create factories with mock
// calculators.
type TestFactory struct {
	calculators map[string]Calculator
}

// NewTestFactory creates a factory pre-populated with the given calculators.
// This is intended for use in tests where mock calculators are needed.
//
// Parameters:
//   - calculators: A map of calculator names to Calculator instances.
//
// Returns:
//   - *TestFactory: A factory that can be used in place of DefaultFactory in tests.
func NewTestFactory(calculators map[string]Calculator) *TestFactory {
	if calculators == nil {
		calculators = make(map[string]Calculator)
	}
	return &TestFactory{calculators: calculators}
}

// Create returns the calculator by name.
func (f *TestFactory) Create(name string) (Calculator, error) {
	return f.Get(name)
}

// Get returns the calculator by name.
func (f *TestFactory) Get(name string) (Calculator, error) {
	calc, ok := f.calculators[name]
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	return calc, nil
}

// List returns all registered calculator names in sorted order.
func (f *TestFactory) List() []string {
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register is a no-op for TestFactory as calculators are provided at construction.
func (f *TestFactory) Register(name string, creator func() coreCalculator) error {
	return nil
}

// GetAll returns all calculators.
func (f *TestFactory) GetAll() map[string]Calculator {
	result := make(map[string]Calculator, len(f.calculators))
	for k, v := range f.calculators {
		result[k] = v
	}
	return result
}

// UnknownCalculatorError is returned when a calculator name is not found.
type UnknownCalculatorError struct {
	Name string
}

func (e *UnknownCalculatorError) Error() string {
	return "unknown calculator: " + e.Name
}
