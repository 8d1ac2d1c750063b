// Package wizard models the multi-step loan application form as an explicit
// state machine, independent of any UI. Forward moves are gated by the
// current step's validator; backward moves never validate.
package wizard

import (
	"context"
	"errors"
	"sort"
)

type Step int

const (
	StepLoanType     Step = 1
	StepSimulation   Step = 2
	StepApplicant    Step = 3
	StepDocuments    Step = 4
	StepConfirmation Step = 5

	TotalSteps = 5
)

func (s Step) String() string {
	switch s {
	case StepLoanType:
		return "loan_type"
	case StepSimulation:
		return "simulation"
	case StepApplicant:
		return "applicant"
	case StepDocuments:
		return "documents"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

var (
	ErrLastStep     = errors.New("wizard: already at the last step")
	ErrFirstStep    = errors.New("wizard: already at the first step")
	ErrStepSkipped  = errors.New("wizard: cannot jump forward past the next step")
	ErrUnknownStep  = errors.New("wizard: unknown step")
	ErrNotFinalStep = errors.New("wizard: submit is only allowed from the confirmation step")
	ErrNoSubmitter  = errors.New("wizard: no submitter configured")
	ErrAlreadyFiled = errors.New("wizard: application already submitted")
)

// Submitter sends the accumulated payload as one creation request.
type Submitter interface {
	Submit(ctx context.Context, p Payload) (applicationID string, err error)
}

type SubmitterFunc func(ctx context.Context, p Payload) (string, error)

func (f SubmitterFunc) Submit(ctx context.Context, p Payload) (string, error) { return f(ctx, p) }

type Option func(*Machine)

func WithValidator(step Step, v Validator) Option {
	return func(m *Machine) { m.validators[step] = v }
}

func WithInitialStep(step Step) Option {
	return func(m *Machine) {
		if step >= StepLoanType && step <= TotalSteps {
			m.initial = step
		}
	}
}

func WithForm(f *Form) Option {
	return func(m *Machine) { m.form = f }
}

type Machine struct {
	form       *Form
	submitter  Submitter
	validators map[Step]Validator

	initial Step
	current Step
	visited map[Step]bool

	lastErr     error
	submittedID string
}

func New(s Submitter, opts ...Option) *Machine {
	m := &Machine{
		form:       NewForm(),
		submitter:  s,
		validators: DefaultValidators(),
		initial:    StepLoanType,
	}
	for _, o := range opts {
		o(m)
	}
	m.current = m.initial
	m.visited = map[Step]bool{m.initial: true}
	return m
}

func (m *Machine) Form() *Form { return m.form }

func (m *Machine) Current() Step { return m.current }

func (m *Machine) IsFirst() bool { return m.current == StepLoanType }

func (m *Machine) IsLast() bool { return m.current == TotalSteps }

// Err is the last validation or submission error, cleared by a successful move.
func (m *Machine) Err() error { return m.lastErr }

func (m *Machine) Submitted() string { return m.submittedID }

// Visited returns the reached steps in ascending order.
func (m *Machine) Visited() []Step {
	out := make([]Step, 0, len(m.visited))
	for s := range m.visited {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GoNext validates the current step and advances on success. On failure the
// step does not change and the validation error is returned and kept in Err.
func (m *Machine) GoNext(ctx context.Context) error {
	if m.current >= TotalSteps {
		return ErrLastStep
	}
	if v := m.validators[m.current]; v != nil {
		if err := v(ctx, m.form); err != nil {
			m.lastErr = err
			return err
		}
	}
	m.lastErr = nil
	m.current++
	m.visited[m.current] = true
	return nil
}

// GoPrevious always succeeds unless already on the first step.
func (m *Machine) GoPrevious() error {
	if m.current <= StepLoanType {
		return ErrFirstStep
	}
	m.lastErr = nil
	m.current--
	return nil
}

// GoToStep moves to n when n is the next step (validated like GoNext) or an
// already visited step behind the current one (no validation). Any other
// forward jump is rejected, including to steps visited earlier.
func (m *Machine) GoToStep(ctx context.Context, n Step) error {
	switch {
	case n < StepLoanType || n > TotalSteps:
		return ErrUnknownStep
	case n == m.current:
		return nil
	case n == m.current+1:
		return m.GoNext(ctx)
	case n < m.current && m.visited[n]:
		m.lastErr = nil
		m.current = n
		return nil
	default:
		return ErrStepSkipped
	}
}

func (m *Machine) Reset() {
	m.current = m.initial
	m.visited = map[Step]bool{m.initial: true}
	m.lastErr = nil
	m.submittedID = ""
}

// Submit re-runs every gating validator then sends the payload. A failure
// leaves the machine on the confirmation step with the form intact.
func (m *Machine) Submit(ctx context.Context) (string, error) {
	if m.current != TotalSteps {
		return "", ErrNotFinalStep
	}
	if m.submittedID != "" {
		return m.submittedID, ErrAlreadyFiled
	}
	if m.submitter == nil {
		return "", ErrNoSubmitter
	}
	for s := StepLoanType; s < TotalSteps; s++ {
		if v := m.validators[s]; v != nil {
			if err := v(ctx, m.form); err != nil {
				m.lastErr = err
				return "", err
			}
		}
	}
	id, err := m.submitter.Submit(ctx, m.form.Payload())
	if err != nil {
		m.lastErr = err
		return "", err
	}
	m.lastErr = nil
	m.submittedID = id
	return id, nil
}
