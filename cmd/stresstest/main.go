// Concurrent stress harness for the CSLPQ priority queue.
//
// Use `stresstest` to drive the MPMC/MPSC scenarios from the
// specification under real goroutine concurrency: single-producer/
// single-consumer ordering, many-producer/many-consumer multiset
// preservation, and many-producer/single-consumer duplicate-key
// fidelity. Each scenario is generalized behind flags (producer count,
// consumer count, key space, duplicate factor) rather than hardcoded to
// the literal 10/10/100,000 figures, so the same binary can be scaled up
// for a longer soak run.
//
// Run the default scenario set:
//
// ```bash
// ./bin/stresstest -scenario=all
// ```
//
// Reference: original_source/test/MPMC1.cpp (barrier-synchronized
// producer/consumer stress harness).
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/mewais/cslpq"
	cslpqcore "github.com/mewais/cslpq/internal/cslpq"
	"github.com/mewais/cslpq/internal/logging"
)

// keyBytesU64 is the big-endian key encoder used for Fingerprint's oracle
// comparison in scenarioS5; it must match cslpq.Uint64Key's natural byte
// order so two fingerprints computed from the same key set always agree.
func keyBytesU64(k uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], k)
	return b[:]
}

// fingerprintKey hashes k the way Queue.Fingerprint hashes a key's first
// occurrence: the 8-byte big-endian key followed by a 4-byte big-endian
// occurrence index of 0. S5's keys are distinct, so every key is a first
// occurrence.
func fingerprintKey(k uint64) uint64 {
	var b [12]byte
	binary.BigEndian.PutUint64(b[:8], k)
	return xxh3.Hash(b[:])
}

var (
	scenario    = flag.String("scenario", "all", "scenario to run: s4, s5, s6, or all")
	producers   = flag.Int("producers", 10, "producer goroutine count (s5, s6)")
	consumers   = flag.Int("consumers", 10, "consumer goroutine count (s5)")
	perProducer = flag.Int("per-producer", 10000, "distinct keys pushed by each producer (s5)")
	distinctKey = flag.Int("distinct-keys", 100, "distinct keys shared across producers (s6)")
	perKey      = flag.Int("per-key", 1000, "duplicate pushes per distinct key (s6)")
	single      = flag.Int("single-n", 10000, "key space size (s4)")
	maxLevel    = flag.Uint("max-level", 12, "queue MaxLevel")
	verbose     = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Parse()

	level := logging.LevelWarn
	if *verbose {
		level = logging.LevelDebug
	}
	log := logging.NewDefaultLogger(level)
	log.SetFatalHandler(func(msg string) {
		fmt.Fprintln(os.Stderr, "FATAL:", msg)
		os.Exit(1)
	})

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║              CSLPQ Stress Test                            ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()

	log.Infof(logging.NSStresstest+"host wide CAS (CMPXCHG16B) support: %v", cslpqcore.WideCASSupported)

	failed := false
	runScenario := func(name string, fn func(*logging.DefaultLogger) error) {
		fmt.Printf("▶ %s... ", name)
		start := time.Now()
		if err := fn(log); err != nil {
			fmt.Printf("❌ FAILED (%v): %v\n", time.Since(start), err)
			log.Errorf(logging.NSStresstest+"%s: %v", name, err)
			failed = true
			return
		}
		fmt.Printf("✅ passed (%v)\n", time.Since(start))
	}

	switch *scenario {
	case "s4":
		runScenario("S4 single-producer/single-consumer", scenarioS4)
	case "s5":
		runScenario("S5 MPMC", scenarioS5)
	case "s6":
		runScenario("S6 MPSC with duplicates", scenarioS6)
	case "all":
		runScenario("S4 single-producer/single-consumer", scenarioS4)
		runScenario("S5 MPMC", scenarioS5)
		runScenario("S6 MPSC with duplicates", scenarioS6)
	default:
		log.Fatalf(logging.NSStresstest+"unknown -scenario %q", *scenario)
	}

	if failed {
		log.Fatalf(logging.NSStresstest + "one or more scenarios failed")
	}
}

// scenarioS4 pushes a shuffled [0, n) key space from a single goroutine,
// then drains serially from the same goroutine, and checks the pop
// sequence is exactly 0, 1, ..., n-1 (spec scenario S4).
func scenarioS4(log *logging.DefaultLogger) error {
	n := *single
	q := cslpq.New[cslpq.Uint64Key](cslpq.Options{MaxLevel: uint32(*maxLevel)})

	order := rand.Perm(n)
	for _, k := range order {
		q.Push(cslpq.Uint64Key(k))
	}
	log.Debugf(logging.NSStresstest+"S4 pushed %d keys", n)

	for want := 0; want < n; want++ {
		got, ok := q.TryPop()
		for !ok {
			got, ok = q.TryPop()
		}
		if uint64(got) != uint64(want) {
			return fmt.Errorf("pop %d: got key %d, want %d", want, got, want)
		}
	}
	if _, ok := q.TryPop(); ok {
		return fmt.Errorf("queue not empty after draining all %d keys", n)
	}
	return nil
}

// scenarioS5 runs *producers goroutines each pushing *perProducer distinct
// keys (partitioned so the union is a contiguous, shuffled key space),
// and *consumers goroutines popping concurrently until the total count
// reaches the expected total; verifies the union of popped keys equals
// the pushed set with no duplicate report (spec scenario S5).
func scenarioS5(log *logging.DefaultLogger) error {
	total := *producers * *perProducer
	q := cslpq.New[cslpq.Uint64Key](cslpq.Options{MaxLevel: uint32(*maxLevel)})

	var wg sync.WaitGroup
	wg.Add(*producers)
	for p := 0; p < *producers; p++ {
		p := p
		go func() {
			defer wg.Done()
			keys := rand.Perm(*perProducer)
			base := p * *perProducer
			for _, k := range keys {
				q.Push(cslpq.Uint64Key(base + k))
			}
		}()
	}
	wg.Wait()
	log.Debugf(logging.NSStresstest+"S5 pushed %d keys from %d producers", total, *producers)

	pushedFingerprint := q.Fingerprint(func(k cslpq.Uint64Key) []byte { return keyBytesU64(uint64(k)) })

	var mu sync.Mutex
	seen := make(map[uint64]int, total)
	var popped atomic.Int64

	var cwg sync.WaitGroup
	cwg.Add(*consumers)
	for c := 0; c < *consumers; c++ {
		go func() {
			defer cwg.Done()
			for {
				if popped.Load() >= int64(total) {
					return
				}
				key, ok := q.TryPop()
				if !ok {
					continue
				}
				mu.Lock()
				seen[uint64(key)]++
				mu.Unlock()
				popped.Add(1)
			}
		}()
	}
	cwg.Wait()

	if int(popped.Load()) != total {
		return fmt.Errorf("consumers reported %d pops, want %d", popped.Load(), total)
	}
	if len(seen) != total {
		return fmt.Errorf("union of popped keys has %d distinct entries, want %d", len(seen), total)
	}
	for k, count := range seen {
		if count != 1 {
			return fmt.Errorf("key %d reported %d times, want exactly 1", k, count)
		}
	}

	var drainedFingerprint uint64
	for k := range seen {
		drainedFingerprint ^= fingerprintKey(k)
	}
	if drainedFingerprint != pushedFingerprint {
		return fmt.Errorf("fingerprint oracle mismatch: pushed %x, drained %x", pushedFingerprint, drainedFingerprint)
	}
	return nil
}

// scenarioS6 runs *producers goroutines pushing *distinctKey keys, each
// key repeated *perKey times paired with a globally unique value, and a
// single consumer draining; checks every (key, value) pair pushed
// appears in the output exactly once (spec scenario S6).
func scenarioS6(log *logging.DefaultLogger) error {
	total := *distinctKey * *perKey
	q := cslpq.NewKV[cslpq.Uint64Key, uint64](cslpq.Options{MaxLevel: uint32(*maxLevel)})

	var wg sync.WaitGroup
	wg.Add(*producers)
	perProducerPushes := total / *producers
	var nextValue atomic.Int64
	for p := 0; p < *producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducerPushes; i++ {
				value := uint64(nextValue.Add(1))
				key := (value - 1) % uint64(*distinctKey)
				q.Push(cslpq.Uint64Key(key), value)
			}
		}()
	}
	wg.Wait()
	log.Debugf(logging.NSStresstest+"S6 pushed %d (key,value) pairs", total)

	seenValues := make(map[uint64]bool, total)
	popped := 0
	for popped < total {
		_, value, ok := q.TryPop()
		if !ok {
			continue
		}
		if seenValues[value] {
			return fmt.Errorf("value %d popped more than once", value)
		}
		seenValues[value] = true
		popped++
	}
	if len(seenValues) != total {
		return fmt.Errorf("drained %d distinct values, want %d", len(seenValues), total)
	}
	return nil
}

