package manifest

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/jobforge/internal/ctxlog"
	"github.com/vk/jobforge/internal/fsutil"
	"github.com/vk/jobforge/internal/model"
)

// Loader is the HCL implementation of manifest loading.
type Loader struct{}

// NewLoader creates a new manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of one manifest file.
type fileRoot struct {
	Jobs []*jobBlock `hcl:"job,block"`
}

type jobBlock struct {
	Name        string `hcl:"name,label"`
	Group       string `hcl:"group,optional"`
	Project     string `hcl:"project"`
	Description string `hcl:"description,optional"`
	NodeFilter  string `hcl:"node_filter,optional"`

	Schedule  *scheduleBlock   `hcl:"schedule,block"`
	Dispatch  *dispatchBlock   `hcl:"dispatch,block"`
	Options   []*optionBlock   `hcl:"option,block"`
	Fragments []*fragmentBlock `hcl:"fragment,block"`
}

type scheduleBlock struct {
	Crontab string `hcl:"crontab"`
	Enabled *bool  `hcl:"enabled,optional"`
}

type dispatchBlock struct {
	Threads   int  `hcl:"threads,optional"`
	KeepGoing bool `hcl:"keep_going,optional"`
}

type optionBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Required    bool           `hcl:"required,optional"`
	Values      hcl.Expression `hcl:"values,optional"`
}

type fragmentBlock struct {
	Hint string `hcl:"hint,optional"`
	Text string `hcl:"text"`
}

// Load discovers every .hcl file under the given paths and decodes the job
// blocks they declare, in stable file order. Job names must be unique across
// the whole load.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]model.CompileRequest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("discovering manifests under %s: %w", path, err)
		}
		files = append(files, found...)
	}
	sort.Strings(files)
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	seen := make(map[string]string)
	var requests []model.CompileRequest

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest file %s: %w", file, diags)
		}

		for _, job := range root.Jobs {
			req, err := translateJob(job)
			if err != nil {
				return nil, fmt.Errorf("%s: job %q: %w", file, job.Name, err)
			}
			qualified := req.Group + "/" + req.Name
			if prev, dup := seen[qualified]; dup {
				return nil, fmt.Errorf("%s: job %q already declared in %s", file, job.Name, prev)
			}
			seen[qualified] = file
			requests = append(requests, req)
		}
	}

	logger.Debug("Manifest loading complete.", "jobs", len(requests))
	return requests, nil
}

func translateJob(job *jobBlock) (model.CompileRequest, error) {
	req := model.CompileRequest{
		Name:        job.Name,
		Group:       job.Group,
		Project:     job.Project,
		Description: job.Description,
		NodeFilter:  job.NodeFilter,
	}

	if job.Schedule != nil {
		enabled := true
		if job.Schedule.Enabled != nil {
			enabled = *job.Schedule.Enabled
		}
		req.Schedule = &model.Schedule{Crontab: job.Schedule.Crontab, Enabled: enabled}
	}
	if job.Dispatch != nil {
		req.Dispatch = &model.Dispatch{
			ThreadCount: job.Dispatch.Threads,
			KeepGoing:   job.Dispatch.KeepGoing,
		}
	}

	for _, opt := range job.Options {
		def, err := translateOption(opt)
		if err != nil {
			return req, fmt.Errorf("option %q: %w", opt.Name, err)
		}
		req.Options = append(req.Options, def)
	}

	for _, frag := range job.Fragments {
		req.Fragments = append(req.Fragments, model.Fragment{
			Text: frag.Text,
			Hint: frag.Hint,
		})
	}
	return req, nil
}

func translateOption(opt *optionBlock) (model.OptionDef, error) {
	def := model.OptionDef{
		Name:        opt.Name,
		Description: opt.Description,
		Required:    opt.Required,
	}

	if opt.Default != nil {
		s, ok, err := evalString(opt.Default)
		if err != nil {
			return def, fmt.Errorf("default: %w", err)
		}
		if ok {
			def.Default = s
		}
	}

	if opt.Values != nil {
		values, err := evalStringList(opt.Values)
		if err != nil {
			return def, fmt.Errorf("values: %w", err)
		}
		def.Values = values
	}
	return def, nil
}
