package prefetch

import (
	"context"
	"sync"
)

// MediaLoader resolves a media reference to a local path, warming an
// on-disk cache as a side effect. Resolution may be slow; it must
// eventually settle.
type MediaLoader interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

type gateResult struct {
	paths    map[string]string
	degraded []string
}

// resolveAll settles once every ref has either resolved or failed.
// An individual failure marks the ref degraded; it never fails the
// gate. A broken clip is better than a pipeline that stalls.
func resolveAll(ctx context.Context, loader MediaLoader, refs []string) gateResult {
	res := gateResult{paths: make(map[string]string, len(refs))}

	if loader == nil {
		res.degraded = append(res.degraded, refs...)
		return res
	}

	type outcome struct {
		ref  string
		path string
		err  error
	}
	outcomes := make([]outcome, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref string) {
			defer wg.Done()
			path, err := loader.Resolve(ctx, ref)
			outcomes[i] = outcome{ref: ref, path: path, err: err}
		}(i, ref)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.err != nil {
			res.degraded = append(res.degraded, o.ref)
			continue
		}
		res.paths[o.ref] = o.path
	}
	return res
}
