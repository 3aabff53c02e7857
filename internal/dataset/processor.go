// Package dataset builds dashboard datasets from validated uploads.
package dataset

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/media-dashboard/backend/internal/aggregate"
	"github.com/media-dashboard/backend/internal/insight"
	"github.com/media-dashboard/backend/internal/models"
	"github.com/media-dashboard/backend/internal/parser"
	"github.com/media-dashboard/backend/internal/storage"
)

// FallbackInsight replaces a panel's insights when the provider call fails
// outright. The rest of the dataset is unaffected.
const FallbackInsight = "Error generating insights."

// Processor turns an uploaded CSV into a DashboardDataset: one panel per
// aggregator, each paired with generated insights.
type Processor struct {
	store       storage.Store
	provider    insight.Provider
	aggregators []aggregate.Aggregator
}

// NewProcessor creates a processor over the default aggregator set.
func NewProcessor(store storage.Store, provider insight.Provider) *Processor {
	return &Processor{
		store:       store,
		provider:    provider,
		aggregators: aggregate.Default(),
	}
}

// NewProcessorWithAggregators creates a processor with a custom aggregator
// set, preserving the given order.
func NewProcessorWithAggregators(store storage.Store, provider insight.Provider, aggs []aggregate.Aggregator) *Processor {
	return &Processor{store: store, provider: provider, aggregators: aggs}
}

// Process parses the stored file, aggregates it into chart specs and
// gathers insights for each panel. The file must already be validated as
// CSV; content-level problems surface as processing errors.
//
// Insight calls run concurrently, but panels are assembled strictly in
// aggregator declaration order once all calls have completed. A failed
// insight call degrades that one panel to the fallback bullet.
//
// The stored file's status tracks the run: "processing" while it runs,
// then "processed" or "error".
func (p *Processor) Process(ctx context.Context, file *models.FileInfo) (*models.DashboardDataset, error) {
	p.setStatus(file.ID, "processing")

	ds, err := p.build(ctx, file)
	if err != nil {
		p.setStatus(file.ID, "error")
		return nil, err
	}

	p.setStatus(file.ID, "processed")
	return ds, nil
}

func (p *Processor) build(ctx context.Context, file *models.FileInfo) (*models.DashboardDataset, error) {
	path, err := p.store.GetFilePath(file.ID)
	if err != nil {
		return nil, fmt.Errorf("locating upload: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	table, rowErrs, err := parser.ParseMentions(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(rowErrs) > 0 {
		fmt.Printf("[Process %s] %d rows skipped (first: line %d, %s)\n",
			shortID(file.ID), len(rowErrs), rowErrs[0].Line, rowErrs[0].Reason)
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("no parseable mention rows in %s", file.Name)
	}

	// Chart specs and summaries are pure and cheap; compute them up front in
	// declaration order.
	specs := make([]models.ChartSpec, len(p.aggregators))
	summaries := make([]string, len(p.aggregators))
	for i, agg := range p.aggregators {
		specs[i] = agg.Aggregate(table)
		summaries[i] = agg.Summary(table)
	}

	// Insight calls are independent; run them concurrently and write each
	// result into its own slot so completion order cannot reorder panels.
	insights := make([][]string, len(p.aggregators))
	var wg sync.WaitGroup
	for i, agg := range p.aggregators {
		wg.Add(1)
		go func(i int, title, summary string) {
			defer wg.Done()
			bullets, err := p.provider.GenerateInsights(ctx, title, summary)
			if err != nil || len(bullets) == 0 {
				if err != nil {
					fmt.Printf("[Process %s] insight generation failed for %q: %v\n", shortID(file.ID), title, err)
				}
				insights[i] = []string{FallbackInsight}
				return
			}
			insights[i] = bullets
		}(i, agg.Title(), summaries[i])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	panels := make([]models.Panel, len(p.aggregators))
	for i, agg := range p.aggregators {
		panels[i] = models.Panel{
			Key:      agg.Key(),
			Title:    agg.Title(),
			Chart:    specs[i],
			Insights: insights[i],
		}
	}

	return &models.DashboardDataset{
		FileID:      file.ID,
		Panels:      panels,
		RecordCount: table.Len(),
		GeneratedAt: time.Now().UnixMilli(),
	}, nil
}

// setStatus records the file lifecycle status. A status write failure is
// logged, not fatal: the dataset result is what the caller acts on.
func (p *Processor) setStatus(id, status string) {
	if err := p.store.SetStatus(id, status); err != nil {
		fmt.Printf("[Process %s] status update to %q failed: %v\n", shortID(id), status, err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
