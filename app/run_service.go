package app

import (
	"context"
	"fmt"
	"path"

	"sheetload/domain/core"
	"sheetload/domain/run"
	"sheetload/internal"
	"sheetload/internal/config"
	"sheetload/internal/errors"
	"sheetload/ports"
)

// RunService iterates the configured bindings in order: fetch, import,
// record. One binding's failure never prevents attempting the rest.
type RunService struct {
	fetcher  ports.Fetcher
	importer *ImportService
	log      *internal.Logger
}

// NewRunService creates a new run service
func NewRunService(fetcher ports.Fetcher, importer *ImportService, logger *internal.Logger) *RunService {
	return &RunService{
		fetcher:  fetcher,
		importer: importer,
		log:      logger,
	}
}

// Run executes one full import run over the given bindings
func (s *RunService) Run(ctx context.Context, bindings []config.FileBinding) run.RunResult {
	result := run.RunResult{ID: core.NewRunID(), StartedAt: core.Now()}
	s.log.Info("run %s started (%d bindings)", result.ID, len(bindings))

	for _, binding := range bindings {
		s.log.Info("processing %s (%s)", binding.Name, binding.RemotePath)

		data, err := s.fetcher.Fetch(ctx, binding.RemotePath)
		if err != nil {
			s.log.Error("%s: %v", binding.Name, err)
			result.Record(run.BindingResult{
				Name:   binding.Name,
				Table:  binding.TableName,
				Status: run.BindingFailed,
				Err:    err,
			})
			continue
		}

		br := s.importer.ImportFile(ctx, binding, data)
		result.Record(br)
		s.log.Info("%s: %s (%d sheets materialized)", binding.Name, br.Status, br.Materialized())
	}

	s.log.Info("%s", result.Summary())
	return result
}

// Check verifies the fetch side without importing: the drive resolves and
// every configured file is present in its folder. The store connection is
// verified separately by the caller.
func (s *RunService) Check(ctx context.Context, lister ports.FolderLister, bindings []config.FileBinding) error {
	var missing int
	for _, binding := range bindings {
		folder := path.Dir(binding.RemotePath)
		name := path.Base(binding.RemotePath)

		entries, err := lister.ListFolder(ctx, folder)
		if err != nil {
			return errors.WithCode(errors.CodeFetchFailure,
				fmt.Errorf("preflight failed for %s: %w", binding.Name, err))
		}

		found := false
		for _, e := range entries {
			if e.Name == name {
				s.log.Info("preflight: %s present (%d bytes)", binding.RemotePath, e.Size)
				found = true
				break
			}
		}
		if !found {
			s.log.Error("preflight: %s missing from %s", name, folder)
			missing++
		}
	}

	if missing > 0 {
		return errors.WithCode(errors.CodeFetchFailure,
			fmt.Errorf("%d configured file(s) missing from the remote folder", missing))
	}
	return nil
}
