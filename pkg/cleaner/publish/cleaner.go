package publish

import (
	"github.com/jmylchreest/nbpublish/internal/notebook"
	"github.com/jmylchreest/nbpublish/pkg/cleaner"
)

// Cleaner removes authoring-environment state from notebooks.
// It implements the cleaner.Cleaner interface.
type Cleaner struct {
	config *Config
	chain  *cleaner.ChainCleaner

	// stats collects counters for the run in progress.
	stats *Stats
}

// New creates a new Cleaner with the given configuration.
// If config is nil, DefaultConfig() is used.
//
// The cell rules run first, then the document pass. Without a server
// signature limit the document pass is a no-op.
func New(config *Config) *Cleaner {
	if config == nil {
		config = DefaultConfig()
	}
	c := &Cleaner{config: config}

	var document cleaner.Cleaner = cleaner.NewNoop()
	if config.TrimServerSignature != nil {
		document = &pass{name: "server-signature", owner: c, apply: trimServerSignature}
	}
	c.chain = cleaner.NewChain(
		&pass{name: "cells", owner: c, apply: applyCellRules},
		document,
	)
	return c
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "publish"
}

// Clean edits nb in place.
func (c *Cleaner) Clean(nb *notebook.Notebook) error {
	_, err := c.CleanWithStats(nb)
	return err
}

// CleanWithStats edits nb in place and reports what changed.
func (c *Cleaner) CleanWithStats(nb *notebook.Notebook) (*Stats, error) {
	c.stats = NewStats()
	if err := c.chain.Clean(nb); err != nil {
		return nil, err
	}
	return c.stats, nil
}

// pass is one step of the publish chain, counting into the owner's
// stats for the current run.
type pass struct {
	name  string
	owner *Cleaner
	apply func(cfg *Config, nb *notebook.Notebook, stats *Stats)
}

func (p *pass) Name() string {
	return p.name
}

func (p *pass) Clean(nb *notebook.Notebook) error {
	p.apply(p.owner.config, nb, p.owner.stats)
	return nil
}
