package main

import (
	"flag"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"weatherfx/internal/geom"
	"weatherfx/pkg/core"
)

type scenario struct {
	tilt  float64
	count int
}

func (s scenario) String() string {
	return fmt.Sprintf("tilt=%5.1f count=%3d", s.tilt, s.count)
}

type stats struct {
	occupied float64
	gap      float64
	spread   float64
}

type scenarioResult struct {
	scenario   scenario
	stratified stats
	random     stats
}

// gain is how many more bins stratified spawning fills on average.
func (r scenarioResult) gain() float64 { return r.stratified.occupied - r.random.occupied }

type sweepConfig struct {
	rect   geom.Rect
	bins   int
	trials int
	seed   int64
}

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	trials := flag.Int("trials", 200, "rebuilds sampled per scenario")
	bins := flag.Int("bins", 24, "coverage bins across the sweep")
	width := flag.Float64("width", 1000, "view width")
	height := flag.Float64("height", 1000, "view height")
	padding := flag.Float64("padding", 40, "viewport padding")
	seed := flag.Int64("seed", 1337, "base seed")
	flag.Parse()

	cfg := sweepConfig{
		rect:   geom.ViewportRect(*width, *height, *padding),
		bins:   *bins,
		trials: *trials,
		seed:   *seed,
	}

	var scenarios []scenario
	for _, tilt := range []float64{0, -5, -12.5, -25, -40, -65} {
		for _, count := range []int{6, 12, 24, 60, 120} {
			scenarios = append(scenarios, scenario{tilt: tilt, count: count})
		}
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, %d trials, %d bins)\n", len(scenarios), max(1, *workers), cfg.trials, cfg.bins)

	start := time.Now()
	all := sweep(cfg, scenarios, *workers)
	if len(all) == 0 {
		return
	}

	fmt.Printf("\n%-22s %22s %22s\n", "", "stratified occ/gap/spr", "random occ/gap/spr")
	for _, res := range all {
		fmt.Printf("%-22s %8.2f %5.2f %7s %8.2f %5.2f %7s\n",
			res.scenario,
			res.stratified.occupied, res.stratified.gap, formatSpread(res.stratified.spread),
			res.random.occupied, res.random.gap, formatSpread(res.random.spread))
	}

	best := all[0]
	for _, res := range all[1:] {
		if res.gain() > best.gain() {
			best = res
		}
	}
	fmt.Printf("\nLargest coverage gain %.2f bins at %s (elapsed %s)\n", best.gain(), best.scenario, time.Since(start).Round(time.Millisecond))
}

// sweep runs every scenario on a pool of workers and returns the results
// ordered by tilt, then count.
func sweep(cfg sweepConfig, scenarios []scenario, workers int) []scenarioResult {
	workers = max(1, workers)
	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(cfg, sc)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range scenarios {
			jobs <- sc
		}
		close(jobs)
	}()

	var all []scenarioResult
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].scenario.tilt != all[j].scenario.tilt {
			return all[i].scenario.tilt > all[j].scenario.tilt
		}
		return all[i].scenario.count < all[j].scenario.count
	})
	return all
}

// runScenario samples trials rebuilds of sc.count particles twice: once with a
// shuffled slot per particle and once with every particle drawing from the
// whole sweep.
func runScenario(cfg sweepConfig, sc scenario) scenarioResult {
	rnd := core.NewRNG(cfg.seed + int64(sc.count)*1000 + int64(math.Round(-sc.tilt*10)))
	res := scenarioResult{scenario: sc}
	paths := make([]geom.Path, sc.count)
	trials := max(1, cfg.trials)

	for t := 0; t < trials; t++ {
		for i, slot := range core.ShuffledSlots(rnd, sc.count) {
			paths[i] = geom.PathForSlot(slot, sc.count, sc.tilt, cfg.rect, rnd)
		}
		accumulate(&res.stratified, geom.Coverage(paths, sc.tilt, cfg.rect, cfg.bins))

		for i := range paths {
			paths[i] = geom.PathForSlot(0, 1, sc.tilt, cfg.rect, rnd)
		}
		accumulate(&res.random, geom.Coverage(paths, sc.tilt, cfg.rect, cfg.bins))
	}

	for _, s := range []*stats{&res.stratified, &res.random} {
		s.occupied /= float64(trials)
		s.gap /= float64(trials)
		s.spread /= float64(trials)
	}
	return res
}

// accumulate adds one coverage sample; an infinite spread counts as the
// population size so empty bins still weigh in the average.
func accumulate(s *stats, c geom.CoverageResult) {
	s.occupied += float64(c.Occupied)
	s.gap += float64(c.LongestGap)
	spread := c.Spread()
	if math.IsInf(spread, 1) {
		spread = float64(c.MaxBin + 1)
	}
	s.spread += spread
}

func formatSpread(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
