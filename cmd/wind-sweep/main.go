package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"forest-disease/internal/sims/forest"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

type paramSet struct {
	wind     forest.Direction
	density  float64
	distance int
}

func (p paramSet) String() string {
	return fmt.Sprintf("wind=%s density=%.2f distance=%d", p.wind, p.density, p.distance)
}

type scenarioResult struct {
	params    paramSet
	runs      int
	halted    int
	meanTicks float64
	meanDead  float64
}

func main() {
	width := pflag.Int("width", 60, "grid width for every run")
	height := pflag.Int("height", 60, "grid height for every run")
	mortality := pflag.Int("mortality", 1, "mortality threshold for every run")
	seeds := pflag.Int("seeds", 8, "runs per parameter set, seeded 1..N")
	maxTicks := pflag.Int("max-ticks", 5000, "tick limit per run")
	workers := pflag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	winds := pflag.String("winds", "N,S,E,W", "comma-separated wind directions")
	densities := pflag.Float64Slice("densities", []float64{0.3, 0.5, 0.65, 0.8}, "tree densities")
	distances := pflag.IntSlice("distances", []int{1, 2}, "spread distances")
	top := pflag.Int("top", 5, "number of best and worst sets to print")
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "wind-sweep"})

	base := forest.DefaultConfig()
	base.Width = *width
	base.Height = *height
	base.Params.Mortality = *mortality
	if err := base.Validate(); err != nil {
		logger.Fatal("invalid base config", "err", err)
	}

	dirs, err := parseWinds(*winds)
	if err != nil {
		logger.Fatal("invalid --winds", "err", err)
	}
	sets := expand(dirs, *densities, *distances)
	if len(sets) == 0 {
		logger.Fatal("nothing to sweep")
	}

	logger.Info("sweeping", "sets", len(sets), "seeds", *seeds, "workers", *workers, "w", base.Width, "h", base.Height)

	start := time.Now()
	all := sweep(base, sets, *seeds, *maxTicks, *workers)
	elapsed := time.Since(start)

	sort.Slice(all, func(i, j int) bool { return all[i].meanDead > all[j].meanDead })

	fmt.Printf("\nMost destructive %d (elapsed %s):\n", min(*top, len(all)), elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < *top; i++ {
		printResult(i+1, all[i])
	}
	fmt.Printf("\nLeast destructive %d:\n", min(*top, len(all)))
	for i := 0; i < len(all) && i < *top; i++ {
		printResult(i+1, all[len(all)-1-i])
	}
}

func printResult(rank int, res scenarioResult) {
	fmt.Printf("%2d) dead=%.3f ticks=%.1f halted=%d/%d %s\n",
		rank, res.meanDead, res.meanTicks, res.halted, res.runs, res.params)
}

func parseWinds(s string) ([]forest.Direction, error) {
	var dirs []forest.Direction
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := forest.ParseDirection(part)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

func expand(winds []forest.Direction, densities []float64, distances []int) []paramSet {
	var sets []paramSet
	for _, wind := range winds {
		for _, density := range densities {
			for _, distance := range distances {
				sets = append(sets, paramSet{wind: wind, density: density, distance: distance})
			}
		}
	}
	return sets
}

func sweep(base forest.Config, sets []paramSet, seeds, maxTicks, workers int) []scenarioResult {
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(base, params, seeds, maxTicks)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	all := make([]scenarioResult, 0, len(sets))
	for res := range results {
		all = append(all, res)
	}
	return all
}

func runScenario(base forest.Config, params paramSet, seeds, maxTicks int) scenarioResult {
	cfg := base.Apply(map[string]string{
		"wind":     params.wind.String(),
		"density":  strconv.FormatFloat(params.density, 'f', -1, 64),
		"distance": strconv.Itoa(params.distance),
	})
	res := scenarioResult{params: params}
	var ticks, dead float64
	for seed := 1; seed <= seeds; seed++ {
		cfg.Seed = int64(seed)
		world, err := forest.NewWorld(cfg)
		if err != nil {
			continue
		}
		for world.Running() && (maxTicks <= 0 || world.Tick() < maxTicks) {
			world.Step()
		}
		res.runs++
		if !world.Running() {
			res.halted++
		}
		counts := world.Counts()
		ticks += float64(world.Tick())
		if total := counts.Total(); total > 0 {
			dead += float64(counts.Dead) / float64(total)
		}
	}
	if res.runs > 0 {
		res.meanTicks = ticks / float64(res.runs)
		res.meanDead = dead / float64(res.runs)
	}
	return res
}
