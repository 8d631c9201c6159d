package rundeck

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vk/jobforge/internal/model"
)

// Submit uploads a definition as a YAML import. The identity carried by the
// definition is preserved, which is what keeps delete-then-recreate honest.
func (c *Client) Submit(ctx context.Context, spec *model.JobSpec) (model.Identity, error) {
	if spec.Project == "" {
		return "", errors.Errorf("definition %q has no project", spec.QualifiedName())
	}

	doc, err := c.codec.EncodeYAML([]*model.JobSpec{spec})
	if err != nil {
		return "", errors.Wrap(err, "encoding definition")
	}

	var result importResult
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/yaml").
		SetQueryParams(map[string]string{
			"format":     "yaml",
			"dupeOption": "update",
			"uuidOption": "preserve",
		}).
		SetBody(doc).
		SetResult(&result).
		Post("/project/" + spec.Project + "/jobs/import")
	if err != nil || res.IsError() {
		return "", fail("importing job definition", res, err)
	}

	if len(result.Failed) > 0 {
		return "", errors.Errorf("import rejected %q: %s", result.Failed[0].Name, result.Failed[0].Error)
	}
	if len(result.Succeeded) == 0 {
		return "", errors.New("import reported neither success nor failure")
	}
	return model.Identity(result.Succeeded[0].ID), nil
}

// Delete permanently removes a job.
func (c *Client) Delete(ctx context.Context, id model.Identity) error {
	res, err := c.http.R().
		SetContext(ctx).
		Delete("/job/" + string(id))
	if err != nil || res.IsError() {
		return fail("deleting job "+string(id), res, err)
	}
	return nil
}

// Run starts an execution.
func (c *Client) Run(ctx context.Context, id model.Identity, options map[string]string, nodeFilter string) (model.ExecutionID, error) {
	body := map[string]any{}
	if len(options) > 0 {
		body["options"] = options
	}
	if nodeFilter != "" {
		body["filter"] = nodeFilter
	}

	var entry executionEntry
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&entry).
		Post("/job/" + string(id) + "/run")
	if err != nil || res.IsError() {
		return "", fail("running job "+string(id), res, err)
	}
	return model.ExecutionID(strconv.FormatInt(entry.ID, 10)), nil
}

// Abort interrupts a running execution.
func (c *Client) Abort(ctx context.Context, exec model.ExecutionID) error {
	res, err := c.http.R().
		SetContext(ctx).
		Post("/execution/" + string(exec) + "/abort")
	if err != nil || res.IsError() {
		return fail("aborting execution "+string(exec), res, err)
	}
	return nil
}

// Retry repeats a finished execution with its original options.
func (c *Client) Retry(ctx context.Context, exec model.ExecutionID) (model.ExecutionID, error) {
	var entry executionEntry
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{}).
		SetResult(&entry).
		Post("/execution/" + string(exec) + "/retry")
	if err != nil || res.IsError() {
		return "", fail("retrying execution "+string(exec), res, err)
	}
	return model.ExecutionID(strconv.FormatInt(entry.ID, 10)), nil
}

// SetEnabled flips whether the job accepts executions.
func (c *Client) SetEnabled(ctx context.Context, id model.Identity, enabled bool) error {
	action := "disable"
	if enabled {
		action = "enable"
	}
	res, err := c.http.R().
		SetContext(ctx).
		Post("/job/" + string(id) + "/" + action)
	if err != nil || res.IsError() {
		return fail(action+" job "+string(id), res, err)
	}
	return nil
}

// SetScheduleEnabled flips whether the job's schedule fires.
func (c *Client) SetScheduleEnabled(ctx context.Context, id model.Identity, enabled bool) error {
	action := "disable"
	if enabled {
		action = "enable"
	}
	res, err := c.http.R().
		SetContext(ctx).
		Post("/job/" + string(id) + "/schedule/" + action)
	if err != nil || res.IsError() {
		return fail(action+" schedule of job "+string(id), res, err)
	}
	return nil
}

// SetExecutionMode flips the system-wide execution switch.
func (c *Client) SetExecutionMode(ctx context.Context, mode model.ExecutionMode) error {
	action := "disable"
	if mode == model.ModeActive {
		action = "enable"
	}
	res, err := c.http.R().
		SetContext(ctx).
		Post("/system/executions/" + action)
	if err != nil || res.IsError() {
		return fail("setting execution mode "+string(mode), res, err)
	}
	return nil
}
