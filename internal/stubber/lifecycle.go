package stubber

import (
	"strings"

	"go.uber.org/zap"

	"github.com/flarebyte/seshat-stubs/internal/firmware"
)

// Options configures a stub run.
type Options struct {
	// Root is the stub output root; empty derives DefaultRoot.
	Root string
	// Version is the tool version written into headers and the report.
	Version string
	// Problematic names objects known to crash introspection when touched.
	Problematic []string
	// Excluded names modules whose introspection is unsafe to even attempt.
	Excluded []string
	// KeepLoaded names modules never evicted because the host still needs them.
	KeepLoaded []string
	// KeepInternal names internal-marker modules that are still stubbed.
	KeepInternal []string
	// NestedThreshold is the free-heap floor for nested modules; 0 uses the default.
	NestedThreshold int
	// Live is the per-attribute liveness callback; nil uses GoschedLiveness.
	Live Liveness
}

// Stubber drives the per-module loop: import, walk, emit, evict.
type Stubber struct {
	rt     firmware.Runtime
	log    *zap.Logger
	emit   *Emitter
	walker *Walker
	gov    *Governor
	report *Report

	problematic  map[string]bool
	excluded     map[string]bool
	keepLoaded   map[string]bool
	keepInternal map[string]bool
}

// New builds a Stubber over the given runtime.
func New(rt firmware.Runtime, log *zap.Logger, opts Options) *Stubber {
	root := opts.Root
	if root == "" {
		root = DefaultRoot(rt.Uname())
	}
	threshold := opts.NestedThreshold
	if threshold == 0 {
		threshold = DefaultNestedThreshold
	}
	live := opts.Live
	if live == nil {
		live = GoschedLiveness
	}
	problematic := nameSet(opts.Problematic)
	return &Stubber{
		rt:           rt,
		log:          log,
		emit:         &Emitter{Root: root, Version: opts.Version},
		walker:       &Walker{Live: live, Problematic: problematic, Log: log},
		gov:          &Governor{MemFree: rt.MemFree, Threshold: threshold},
		report:       NewReport(rt.Uname(), opts.Version),
		problematic:  problematic,
		excluded:     nameSet(opts.Excluded),
		keepLoaded:   nameSet(opts.KeepLoaded),
		keepInternal: nameSet(opts.KeepInternal),
	}
}

// Root returns the stub output root in use.
func (s *Stubber) Root() string { return s.emit.Root }

// Report returns the accumulated run report.
func (s *Stubber) Report() *Report { return s.report }

// CreateAllStubs walks the catalog, nested modules first while the heap is
// most plentiful, and returns the count of modules stubbed. One module's
// failure never aborts the rest of the catalog.
func (s *Stubber) CreateAllStubs(modules []string) int {
	for _, name := range orderNestedFirst(modules) {
		if err := s.StubOneModule(name); err != nil {
			s.log.Error("stub failed", zap.String("module", name), zap.Error(err))
		}
	}
	return s.report.Len()
}

// StubOneModule stubs a single catalog entry. Skips and absent modules are
// logged and return nil; only unexpected write failures surface as errors.
func (s *Stubber) StubOneModule(name string) error {
	switch {
	case strings.HasPrefix(name, "_") && !s.keepInternal[name]:
		s.log.Warn("skipping internal module", zap.String("module", name))
		return nil
	case s.problematic[name]:
		s.log.Warn("skipping problematic module", zap.String("module", name))
		return nil
	case s.excluded[name]:
		s.log.Warn("skipping excluded module", zap.String("module", name))
		return nil
	}
	// The nested branch is optional work, gated on the freshest heap reading.
	if strings.Contains(name, "/") && !s.gov.AllowNested() {
		s.log.Warn("skipping nested module, low memory",
			zap.String("module", name), zap.Int("memFree", s.rt.MemFree()))
		return nil
	}

	importName := strings.ReplaceAll(name, "/", ".")
	obj, err := s.rt.Import(importName)
	if err != nil {
		if firmware.IsNotPresent(err) {
			s.log.Debug("module not on this firmware", zap.String("module", importName))
		} else {
			s.log.Error("import failed", zap.String("module", importName), zap.Error(err))
		}
		return nil
	}

	stub, err := s.emit.Begin(name, s.rt.Uname())
	if err != nil {
		s.log.Error("cannot open stub file", zap.String("module", name), zap.Error(err))
		return nil
	}
	s.log.Info("stub module",
		zap.String("module", importName),
		zap.String("file", stub.Path),
		zap.Int("memFree", s.rt.MemFree()))

	walkErr := s.walker.WriteObjectStub(stub, obj, importName, "")
	closeErr := stub.Close()
	if walkErr == nil && closeErr == nil {
		s.report.Add(importName, stub.Path)
	}

	s.evict(importName)
	if walkErr != nil {
		return walkErr
	}
	return closeErr
}

func (s *Stubber) evict(name string) {
	if s.keepLoaded[name] {
		return
	}
	s.rt.Evict(name)
	s.rt.Reclaim()
}

func nameSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// orderNestedFirst puts slash-named modules ahead of flat ones, keeping each
// group's relative order.
func orderNestedFirst(modules []string) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		if strings.Contains(m, "/") {
			out = append(out, m)
		}
	}
	for _, m := range modules {
		if !strings.Contains(m, "/") {
			out = append(out, m)
		}
	}
	return out
}
