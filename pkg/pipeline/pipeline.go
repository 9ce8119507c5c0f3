// Package pipeline sequences transforms and validators over a batch of
// resources before handing the result to an emitter.
package pipeline

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/openshift/loki-manifests/lib/node"
)

// State is the lifecycle position of a pipeline.
type State string

const (
	StateCollected   State = "Collected"
	StateTransformed State = "Transformed"
	StateValidated   State = "Validated"
	StateEmitted     State = "Emitted"
	StateFailed      State = "Failed"
)

// Emitter receives the resources of a successful run, in submission order.
type Emitter interface {
	Emit([]node.Resource) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func([]node.Resource) error

func (f EmitterFunc) Emit(rs []node.Resource) error { return f(rs) }

type transform struct {
	name string
	fn   node.Func
}

// Pipeline applies registered transforms then validators to every
// submitted resource. It is not safe for concurrent use.
type Pipeline struct {
	transforms []transform
	validators []node.Validator
	resources  []node.Resource

	state  State
	result []node.Resource
	err    error
}

// New returns an empty pipeline in the Collected state.
func New() *Pipeline {
	return &Pipeline{state: StateCollected}
}

// AddTransform registers a rewrite. Transforms run in registration order.
func (p *Pipeline) AddTransform(name string, fn node.Func) *Pipeline {
	p.transforms = append(p.transforms, transform{name: name, fn: fn})
	return p
}

// AddValidator registers checks. Validators run in registration order after
// every transform has been applied to every resource.
func (p *Pipeline) AddValidator(validators ...node.Validator) *Pipeline {
	p.validators = append(p.validators, validators...)
	return p
}

// Submit adds resources to the batch and returns the pipeline to the
// Collected state.
func (p *Pipeline) Submit(rs ...node.Resource) *Pipeline {
	p.resources = append(p.resources, rs...)
	p.state = StateCollected
	p.result = nil
	p.err = nil
	return p
}

// State reports where the last run left the pipeline.
func (p *Pipeline) State() State {
	return p.state
}

// Run transforms and validates the submitted resources. It returns the
// resulting resources in submission order, or the first error encountered.
// Submitted resources are never modified.
func (p *Pipeline) Run() ([]node.Resource, error) {
	out, err := p.run()
	if err != nil {
		p.state = StateFailed
		p.err = err
		metricRuns.WithLabelValues(string(StateFailed)).Inc()
		return nil, err
	}
	p.result = out
	metricRuns.WithLabelValues(string(StateValidated)).Inc()
	return out, nil
}

func (p *Pipeline) run() ([]node.Resource, error) {
	out := make([]node.Resource, len(p.resources))
	copy(out, p.resources)

	for _, t := range p.transforms {
		klog.V(2).Infof("Running transform %q over %d resources", t.name, len(out))
		for i, r := range out {
			next, err := node.FoldResource(r, t.fn)
			if err != nil {
				metricTransformErrors.WithLabelValues(t.name).Inc()
				return nil, newStepError(ReasonTransform, t.name, r, err)
			}
			out[i] = next
		}
	}
	p.state = StateTransformed

	for _, v := range p.validators {
		klog.V(2).Infof("Running validator %q over %d resources", v.Name, len(out))
		for _, r := range out {
			if err := node.Check(r, v); err != nil {
				metricValidationErrors.WithLabelValues(v.Name).Inc()
				return nil, newStepError(ReasonValidation, v.Name, r, err)
			}
		}
	}
	p.state = StateValidated
	return out, nil
}

// Emit hands the result of a successful run to e. It fails if the pipeline
// has not run, or the run failed.
func (p *Pipeline) Emit(e Emitter) error {
	if p.state != StateValidated {
		return &Error{
			Nested:  p.err,
			Reason:  ReasonState,
			Message: fmt.Sprintf("cannot emit from state %s", p.state),
		}
	}
	if err := e.Emit(p.result); err != nil {
		return err
	}
	for _, r := range p.result {
		metricResourcesEmitted.WithLabelValues(string(r.Kind())).Inc()
	}
	p.state = StateEmitted
	return nil
}
