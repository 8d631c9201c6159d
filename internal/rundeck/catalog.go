package rundeck

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/vk/jobforge/internal/model"
)

// Definition fetches the current definition behind an identity.
func (c *Client) Definition(ctx context.Context, id model.Identity) (*model.JobSpec, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/yaml").
		SetQueryParam("format", "yaml").
		Get("/job/" + string(id))
	if err != nil || res.IsError() {
		return nil, fail("fetching job "+string(id), res, err)
	}

	specs, err := c.codec.DecodeYAML(res.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "decoding job %s", id)
	}
	if len(specs) == 0 {
		return nil, errors.Errorf("job %s: server returned an empty document", id)
	}

	spec := specs[0]
	if spec.ID == "" {
		spec.ID = id
	}
	return spec, nil
}

// ExecutionStatus fetches the state of one run.
func (c *Client) ExecutionStatus(ctx context.Context, exec model.ExecutionID) (*model.ExecutionStatus, error) {
	var entry executionEntry
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&entry).
		Get("/execution/" + string(exec))
	if err != nil || res.IsError() {
		return nil, fail("fetching execution "+string(exec), res, err)
	}

	status := &model.ExecutionStatus{
		ID:        exec,
		Project:   entry.Project,
		State:     executionState(entry.Status),
		Permalink: entry.Permalink,
	}
	if entry.Job != nil {
		status.Job = model.Identity(entry.Job.ID)
		status.JobName = entry.Job.Name
	}
	if entry.DateStarted != nil {
		status.StartedAt = entry.DateStarted.Date
	}
	if entry.DateEnded != nil {
		ended := entry.DateEnded.Date
		status.EndedAt = &ended
	}
	return status, nil
}

// ExecutionOutput fetches the collected log lines of a run.
func (c *Client) ExecutionOutput(ctx context.Context, exec model.ExecutionID) (string, error) {
	var result outputResult
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/execution/" + string(exec) + "/output")
	if err != nil || res.IsError() {
		return "", fail("fetching output of execution "+string(exec), res, err)
	}

	lines := make([]string, 0, len(result.Entries))
	for _, entry := range result.Entries {
		lines = append(lines, entry.Log)
	}
	return strings.Join(lines, "\n"), nil
}

// ExecutionMode reads the system-wide execution switch.
func (c *Client) ExecutionMode(ctx context.Context) (model.ExecutionMode, error) {
	info, err := c.systemInfo(ctx)
	if err != nil {
		return "", err
	}
	if info.System.Executions.Active {
		return model.ModeActive, nil
	}
	return model.ModePassive, nil
}

// ListJobs enumerates the jobs of a project.
func (c *Client) ListJobs(ctx context.Context, project string) ([]*model.JobSpec, error) {
	var entries []jobListEntry
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&entries).
		Get("/project/" + project + "/jobs")
	if err != nil || res.IsError() {
		return nil, fail("listing jobs of project "+project, res, err)
	}

	specs := make([]*model.JobSpec, 0, len(entries))
	for _, e := range entries {
		specs = append(specs, &model.JobSpec{
			ID:          model.Identity(e.ID),
			Name:        e.Name,
			Group:       e.Group,
			Project:     project,
			Description: e.Description,
		})
	}
	return specs, nil
}

// Healthy reports whether the server answers at all.
func (c *Client) Healthy(ctx context.Context) error {
	_, err := c.systemInfo(ctx)
	return err
}

func (c *Client) systemInfo(ctx context.Context) (*systemInfo, error) {
	var info systemInfo
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&info).
		Get("/system/info")
	if err != nil || res.IsError() {
		return nil, fail("fetching system info", res, err)
	}
	return &info, nil
}

func executionState(status string) model.ExecutionState {
	switch strings.ToLower(status) {
	case "running":
		return model.ExecutionRunning
	case "succeeded":
		return model.ExecutionSucceeded
	case "aborted":
		return model.ExecutionAborted
	default:
		return model.ExecutionFailed
	}
}
