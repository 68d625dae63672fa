package dms

import (
	"context"
	"fmt"

	"github.com/arloliu/go-dms/snmp"
)

// Step is one management operation of a workflow.
type Step struct {
	Name string
	OID  snmp.OID
	Run  func(ctx context.Context) (snmp.Value, error)
}

// StepResult is the outcome of one Step.
type StepResult struct {
	Name  string
	OID   snmp.OID
	Value snmp.Value
	Err   error
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool { return r.Err == nil }

func (r StepResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s: %v", r.Name, r.OID, r.Err)
	}

	return fmt.Sprintf("%s %s: ok", r.Name, r.OID)
}

// runSteps runs steps in order and stops at the first failure.
func runSteps(ctx context.Context, steps []Step) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))

	for _, s := range steps {
		v, err := s.Run(ctx)
		results = append(results, StepResult{Name: s.Name, OID: s.OID, Value: v, Err: err})
		if err != nil {
			return results, fmt.Errorf("dms: step %q: %w", s.Name, err)
		}
	}

	return results, nil
}
