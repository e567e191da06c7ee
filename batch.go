// Directory scans.
//
// ScanDir reads every region file in a directory with a fixed pool of
// workers. Files are independent, so each worker runs its own Open; a
// damaged or unreadable file is recorded in its Result and never stops the
// scan.
package region

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
)

// ScanOptions configures ScanDir.
type ScanOptions struct {
	Config Config // Passed to every Open
	Jobs   int    // Concurrent files (default: GOMAXPROCS)
}

// Result is the outcome for one file.
type Result struct {
	Path   string
	Region *Region // nil when Err is set
	Err    error
}

// Summary totals a scan.
type Summary struct {
	Files     int      `json:"files" yaml:"files" cbor:"files"`
	Failed    int      `json:"failed" yaml:"failed" cbor:"failed"`
	Health    Health   `json:"health" yaml:"health" cbor:"health"`
	Recovered int      `json:"recovered" yaml:"recovered" cbor:"recovered"`
	Corrupted []string `json:"corrupted,omitempty" yaml:"corrupted,omitempty" cbor:"corrupted,omitempty"`
	Errors    []string `json:"errors,omitempty" yaml:"errors,omitempty" cbor:"errors,omitempty"`
}

// Scan is the result of ScanDir, with Results in file name order.
type Scan struct {
	Results []Result
	Summary Summary
}

// ScanDir reads every *.region.bin file directly inside dir. Other entries
// are skipped. The scan stops early only when ctx is cancelled, in which
// case the files already read are returned along with ctx.Err().
func ScanDir(ctx context.Context, dir string, opts ScanOptions) (*Scan, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsRegionFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = max(1, min(jobs, len(paths)))

	log := opts.Config.withDefaults().Logger
	log.Debug("scanning directory", "dir", dir, "files", len(paths), "jobs", jobs)

	results := make([]Result, len(paths))
	done := make([]bool, len(paths))
	work := make(chan int)
	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				reg, err := Open(paths[i], opts.Config)
				results[i] = Result{Path: paths[i], Region: reg, Err: err}
				done[i] = true
			}
		}()
	}

	var cancelled error
feed:
	for i := range paths {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case work <- i:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(work)
	wg.Wait()

	scan := &Scan{}
	for i, res := range results {
		if !done[i] {
			continue
		}
		scan.Results = append(scan.Results, res)
		scan.Summary.add(res)
	}
	slices.Sort(scan.Summary.Corrupted)
	return scan, cancelled
}

func (s *Summary) add(res Result) {
	s.Files++
	if res.Err != nil {
		s.Failed++
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", res.Path, res.Err))
		return
	}
	h := res.Region.Health()
	s.Health.Add(h)
	s.Recovered += len(res.Region.Recovered())
	if h.Corrupted > 0 {
		s.Corrupted = append(s.Corrupted, filepath.Base(res.Path))
	}
}
