// Package exporter runs the read, parse, flatten and write pipeline for SBOM
// documents.
package exporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/StinkyLord/sbom-license-exporter/internal/flatten"
	"github.com/StinkyLord/sbom-license-exporter/internal/model"
	"github.com/StinkyLord/sbom-license-exporter/internal/output"
	"github.com/StinkyLord/sbom-license-exporter/internal/utils/logger"
)

// Options configures every document an Exporter processes.
type Options struct {
	Format  model.Format
	Flatten flatten.Options
	Output  output.Options
}

// Job names one input document and where its tables go.
type Job struct {
	InputPath string

	// LicensePath receives the record table. "-" writes to stdout.
	LicensePath string

	// ReferencePath receives the extracted-license table for SPDX input.
	// Empty skips it. CycloneDX documents have no such table.
	ReferencePath string
}

// Result holds what was extracted from one document.
type Result struct {
	Records []model.Record

	// References is nil for CycloneDX documents.
	References []model.LicenseRef
}

// InputError reports a document that could not be read or parsed.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Exporter holds no per-document state and is safe for concurrent use.
type Exporter struct {
	opts Options
	log  *zap.SugaredLogger
}

// New creates an Exporter.
func New(opts Options) *Exporter {
	return &Exporter{
		opts: opts,
		log:  logger.Logger(),
	}
}

// Extract parses data in the configured format and flattens it.
func (e *Exporter) Extract(data []byte) (*Result, error) {
	switch e.opts.Format {
	case model.FormatCycloneDX:
		doc, err := model.ParseCycloneDX(data)
		if err != nil {
			return nil, err
		}
		return &Result{Records: flatten.CycloneDX(doc, e.opts.Flatten)}, nil

	case model.FormatSPDX:
		doc, err := model.ParseSPDX(data)
		if err != nil {
			return nil, err
		}
		return &Result{
			Records:    flatten.SPDX(doc, e.opts.Flatten),
			References: flatten.LicenseRefs(doc),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported SBOM type %q", e.opts.Format)
	}
}

// Export processes one job. The input is fully parsed before any output is
// opened, so an input error never leaves a partial table behind.
func (e *Exporter) Export(job Job) (*Result, error) {
	if err := e.checkPaths(job); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(job.InputPath)
	if err != nil {
		return nil, &InputError{Path: job.InputPath, Err: err}
	}

	res, err := e.Extract(data)
	if err != nil {
		return nil, &InputError{Path: job.InputPath, Err: err}
	}
	e.log.Infof("Extracted %d license record(s) from %s", len(res.Records), job.InputPath)

	if err := output.WriteRecords(res.Records, job.LicensePath, e.opts.Output); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	e.log.Debugf("License table written to %s", job.LicensePath)

	switch {
	case e.opts.Format != model.FormatSPDX:
		if job.ReferencePath != "" {
			e.log.Debugf("Ignoring reference path %s for %s input", job.ReferencePath, e.opts.Format)
		}
	case job.ReferencePath == "":
		e.log.Debugf("No reference path given, skipping %d extracted license(s)", len(res.References))
	default:
		if err := output.WriteLicenseRefs(res.References, job.ReferencePath, e.opts.Output); err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		e.log.Debugf("License reference table written to %s", job.ReferencePath)
	}

	return res, nil
}

// checkPaths rejects a job whose two SPDX tables would land in the same file.
func (e *Exporter) checkPaths(job Job) error {
	if e.opts.Format != model.FormatSPDX || job.ReferencePath == "" || job.LicensePath == "-" {
		return nil
	}
	if filepath.Clean(job.LicensePath) == filepath.Clean(job.ReferencePath) {
		return fmt.Errorf("license and reference tables would both be written to %s", job.LicensePath)
	}
	return nil
}

// ExportAll runs jobs concurrently. Results are index-aligned with jobs and
// nil where a job failed; the returned error joins every job's error.
func (e *Exporter) ExportAll(jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := e.Export(job)
			if err != nil {
				e.log.Warnf("Export of %s failed: %v", job.InputPath, err)
				errs[i] = err
				return
			}
			results[i] = res
		}()
	}
	wg.Wait()

	return results, errors.Join(errs...)
}
