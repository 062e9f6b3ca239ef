package ingest

import (
	"context"
	"fmt"

	"github.com/flowshift/quoter/common/models"
	"golang.org/x/sync/errgroup"
)

// File is one uploaded export
type File struct {
	Name string
	// Declared size from the upload metadata, 0 when unknown
	Size    int64
	Content []byte
}

// FileResult is the outcome of processing one file. Exactly one of Workflow,
// Pending, Err or Warning describes the outcome.
type FileResult struct {
	FileName string
	Platform models.Platform

	// Set for Make.com and n8n exports
	Workflow *models.Workflow

	// Set for Zapier exports, awaiting user selection
	Pending []models.PendingZapierWorkflow

	// Validation rejection, the file is excluded
	Err error

	// Soft warning (unknown platform), the file is excluded
	Warning error
}

// Accepted reports whether the file produced anything usable
func (r FileResult) Accepted() bool {
	return r.Err == nil && r.Warning == nil
}

// Processor runs uploads through guard, detector and normalizers
type Processor struct {
	guard        *Guard
	pricePerNode int
	concurrency  int
}

// NewProcessor creates a processor. concurrency bounds how many files of one
// batch are parsed at the same time.
func NewProcessor(guard *Guard, pricePerNode, concurrency int) *Processor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor{
		guard:        guard,
		pricePerNode: pricePerNode,
		concurrency:  concurrency,
	}
}

// PricePerNode returns the price the processor bills per node
func (p *Processor) PricePerNode() int {
	return p.pricePerNode
}

// ProcessFile validates and normalizes a single file. It never panics on
// hostile input and touches no shared state.
func (p *Processor) ProcessFile(f File) FileResult {
	result := FileResult{FileName: f.Name, Platform: models.PlatformUnknown}

	size := f.Size
	if size == 0 {
		size = int64(len(f.Content))
	}
	if err := p.guard.ValidateFile(FileMeta{Name: f.Name, Size: size}); err != nil {
		result.Err = err
		return result
	}

	doc, err := p.guard.ValidateContent(f.Name, f.Content)
	if err != nil {
		result.Err = err
		return result
	}

	result.Platform = Detect(doc)

	switch result.Platform {
	case models.PlatformMake:
		wf := NormalizeMake(doc, f.Name, p.pricePerNode)
		result.Workflow = &wf
	case models.PlatformN8n:
		wf := NormalizeN8n(doc, f.Name, p.pricePerNode)
		result.Workflow = &wf
	case models.PlatformZapier:
		result.Pending = ExtractPending(doc, f.Name, p.pricePerNode)
	default:
		result.Warning = newFileError(f.Name, ErrUnknownPlatform, "expected a Make.com, Zapier or n8n export")
	}

	return result
}

// ProcessBatch processes files independently and returns one result per file
// in upload order. A rejected file never affects its siblings; the only error
// returned is context cancellation.
func (p *Processor) ProcessBatch(ctx context.Context, files []File) ([]FileResult, error) {
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.ProcessFile(f)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process batch: %w", err)
	}

	return results, nil
}
