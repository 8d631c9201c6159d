package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vk/jobforge/internal/model"
)

// FakeOrchestrator implements the lifecycle Transport and Catalog interfaces
// in memory. Tests inspect Calls to prove exactly which mutations ran, and
// the Fail* fields inject failures at specific points.
type FakeOrchestrator struct {
	mu         sync.Mutex
	jobs       map[model.Identity]*model.JobSpec
	executions map[model.ExecutionID]*model.ExecutionStatus
	enabled    map[model.Identity]bool
	scheduled  map[model.Identity]bool
	mode       model.ExecutionMode
	execSeq    int

	// Calls records every transport mutation in order, by method name.
	Calls []string

	// CatalogReads counts Definition and ExecutionStatus lookups.
	CatalogReads int

	FailSubmit error
	FailDelete error
	FailRun    error
}

// NewFakeOrchestrator creates an empty fake in active mode.
func NewFakeOrchestrator() *FakeOrchestrator {
	return &FakeOrchestrator{
		jobs:       make(map[model.Identity]*model.JobSpec),
		executions: make(map[model.ExecutionID]*model.ExecutionStatus),
		enabled:    make(map[model.Identity]bool),
		scheduled:  make(map[model.Identity]bool),
		mode:       model.ModeActive,
	}
}

// Seed stores a job directly, bypassing the transport. Specs without an
// identity get one assigned. Returns the identity for test assertions.
func (f *FakeOrchestrator) Seed(spec *model.JobSpec) model.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	if spec.ID == "" {
		spec.ID = model.Identity(uuid.NewString())
	}
	f.jobs[spec.ID] = spec
	f.enabled[spec.ID] = true
	f.scheduled[spec.ID] = true
	return spec.ID
}

// SeedExecution stores an execution directly, bypassing the transport.
func (f *FakeOrchestrator) SeedExecution(status *model.ExecutionStatus) model.ExecutionID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status.ID == "" {
		f.execSeq++
		status.ID = model.ExecutionID(fmt.Sprintf("%d", 1000+f.execSeq))
	}
	f.executions[status.ID] = status
	return status.ID
}

// Job returns the stored definition, or nil when the identity is unknown.
func (f *FakeOrchestrator) Job(id model.Identity) *model.JobSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[id]
}

// Enabled reports the availability flag of a stored job.
func (f *FakeOrchestrator) Enabled(id model.Identity) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled[id]
}

// ScheduleEnabled reports the schedule flag of a stored job.
func (f *FakeOrchestrator) ScheduleEnabled(id model.Identity) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scheduled[id]
}

// Mode returns the system-wide execution mode.
func (f *FakeOrchestrator) Mode() model.ExecutionMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// TransportCalls returns how many mutations reached the transport.
func (f *FakeOrchestrator) TransportCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

func (f *FakeOrchestrator) record(name string) {
	f.Calls = append(f.Calls, name)
}

// Submit implements lifecycle.Transport.
func (f *FakeOrchestrator) Submit(_ context.Context, spec *model.JobSpec) (model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("submit")
	if f.FailSubmit != nil {
		return "", f.FailSubmit
	}
	id := spec.ID
	if id == "" {
		id = model.Identity(uuid.NewString())
	}
	stored := *spec
	stored.ID = id
	f.jobs[id] = &stored
	f.enabled[id] = true
	f.scheduled[id] = true
	return id, nil
}

// Delete implements lifecycle.Transport.
func (f *FakeOrchestrator) Delete(_ context.Context, id model.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete")
	if f.FailDelete != nil {
		return f.FailDelete
	}
	if _, ok := f.jobs[id]; !ok {
		return fmt.Errorf("no job %s", id)
	}
	delete(f.jobs, id)
	delete(f.enabled, id)
	delete(f.scheduled, id)
	return nil
}

// Run implements lifecycle.Transport.
func (f *FakeOrchestrator) Run(_ context.Context, id model.Identity, _ map[string]string, _ string) (model.ExecutionID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("run")
	if f.FailRun != nil {
		return "", f.FailRun
	}
	job, ok := f.jobs[id]
	if !ok {
		return "", fmt.Errorf("no job %s", id)
	}
	return f.startExecution(job), nil
}

// Abort implements lifecycle.Transport.
func (f *FakeOrchestrator) Abort(_ context.Context, exec model.ExecutionID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("abort")
	status, ok := f.executions[exec]
	if !ok {
		return fmt.Errorf("no execution %s", exec)
	}
	now := time.Now()
	status.State = model.ExecutionAborted
	status.EndedAt = &now
	return nil
}

// Retry implements lifecycle.Transport.
func (f *FakeOrchestrator) Retry(_ context.Context, exec model.ExecutionID) (model.ExecutionID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("retry")
	prev, ok := f.executions[exec]
	if !ok {
		return "", fmt.Errorf("no execution %s", exec)
	}
	job := f.jobs[prev.Job]
	if job == nil {
		return "", fmt.Errorf("execution %s belongs to a deleted job", exec)
	}
	return f.startExecution(job), nil
}

// SetEnabled implements lifecycle.Transport.
func (f *FakeOrchestrator) SetEnabled(_ context.Context, id model.Identity, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("set_enabled")
	if _, ok := f.jobs[id]; !ok {
		return fmt.Errorf("no job %s", id)
	}
	f.enabled[id] = enabled
	return nil
}

// SetScheduleEnabled implements lifecycle.Transport.
func (f *FakeOrchestrator) SetScheduleEnabled(_ context.Context, id model.Identity, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("set_schedule_enabled")
	if _, ok := f.jobs[id]; !ok {
		return fmt.Errorf("no job %s", id)
	}
	f.scheduled[id] = enabled
	return nil
}

// SetExecutionMode implements lifecycle.Transport.
func (f *FakeOrchestrator) SetExecutionMode(_ context.Context, mode model.ExecutionMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("set_execution_mode")
	f.mode = mode
	return nil
}

// Definition implements lifecycle.Catalog.
func (f *FakeOrchestrator) Definition(_ context.Context, id model.Identity) (*model.JobSpec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CatalogReads++
	job, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("no job %s", id)
	}
	return job, nil
}

// ExecutionStatus implements lifecycle.Catalog.
func (f *FakeOrchestrator) ExecutionStatus(_ context.Context, exec model.ExecutionID) (*model.ExecutionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CatalogReads++
	status, ok := f.executions[exec]
	if !ok {
		return nil, fmt.Errorf("no execution %s", exec)
	}
	return status, nil
}

func (f *FakeOrchestrator) startExecution(job *model.JobSpec) model.ExecutionID {
	f.execSeq++
	exec := model.ExecutionID(fmt.Sprintf("%d", 1000+f.execSeq))
	f.executions[exec] = &model.ExecutionStatus{
		ID:        exec,
		Job:       job.ID,
		JobName:   job.Name,
		Project:   job.Project,
		State:     model.ExecutionRunning,
		StartedAt: time.Now(),
	}
	return exec
}
