// End-to-end smoke test for the CSLPQ priority queue.
//
// Use `smoketest` to run the literal acceptance scenarios from the
// specification this module implements: an empty-pop/single-item check,
// a fixed 25-pair ordered drain (including a duplicate priority with two
// distinct values, one of them null), and the same drain reordered under
// a composite (u64, u64) key.
//
// Run a smoke test:
//
// ```bash
// ./bin/smoketest -v
// ```
//
// Reference: original_source/test/Func1.cpp, Func2.cpp, Func3.cpp.
package main

import (
	"fmt"
	"os"

	"github.com/mewais/cslpq"
	"github.com/mewais/cslpq/internal/logging"
)

var verbose = false

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			verbose = true
		}
	}

	log := logging.NewDefaultLogger(logging.LevelWarn)
	if verbose {
		log = logging.NewDefaultLogger(logging.LevelDebug)
	}
	log.SetFatalHandler(func(msg string) {
		fmt.Fprintln(os.Stderr, "FATAL:", msg)
		os.Exit(1)
	})

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║              CSLPQ Smoke Test                             ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()

	passed, failed := 0, 0
	run := func(name string, fn func(*logging.DefaultLogger) error) {
		fmt.Printf("▶ %s... ", name)
		if err := fn(log); err != nil {
			fmt.Printf("❌ FAILED: %v\n", err)
			log.Errorf(logging.NSSmoketest+"%s: %v", name, err)
			failed++
			return
		}
		fmt.Println("✅ passed")
		passed++
	}

	run("S1 empty pop", scenarioS1)
	run("S2 ordered drain", scenarioS2)
	run("S3 composite key ordering", scenarioS3)

	fmt.Println()
	fmt.Printf("Results: %d passed, %d failed\n", passed, failed)
	if failed > 0 {
		log.Fatalf(logging.NSSmoketest+"%d scenario(s) failed", failed)
	}
}

// scenarioS1 implements spec scenario S1: TryPop on empty fails, a single
// Push/TryPop round-trips, and the queue is empty again afterward.
func scenarioS1(log *logging.DefaultLogger) error {
	q := cslpq.NewKV[cslpq.Uint64Key, int](cslpq.Options{MaxLevel: 8})

	if _, _, ok := q.TryPop(); ok {
		return fmt.Errorf("TryPop on empty queue returned ok=true")
	}

	q.Push(112, 5)
	key, value, ok := q.TryPop()
	if !ok || key != 112 || value != 5 {
		return fmt.Errorf("TryPop after Push(112, 5) = (%v, %v, %v), want (112, 5, true)", key, value, ok)
	}

	if _, _, ok := q.TryPop(); ok {
		return fmt.Errorf("TryPop on drained queue returned ok=true")
	}
	log.Debugf(logging.NSSmoketest + "S1 ok")
	return nil
}

type s2pair struct {
	priority uint64
	value    *uint64
}

func u64(v uint64) *uint64 { return &v }

// s2Input is the literal 25-pair data set from spec scenario S2 (and the
// original's MPSC3/Func2/Func3 test fixtures), preserving insertion order.
// Key 101 appears twice: once with a null value, once with 0x10000.
var s2Input = []s2pair{
	{112, u64(5)}, {102, u64(1)}, {121, u64(8)}, {133, u64(15)},
	{124, u64(11)}, {141, u64(16)}, {123, u64(10)}, {113, u64(6)},
	{103, u64(2)}, {154, u64(23)}, {142, u64(17)}, {111, u64(4)},
	{153, u64(22)}, {143, u64(18)}, {125, u64(12)}, {101, nil},
	{152, u64(21)}, {151, u64(20)}, {122, u64(9)}, {114, u64(7)},
	{131, u64(13)}, {104, u64(3)}, {101, u64(0x10000)}, {132, u64(14)},
	{144, u64(19)},
}

func scenarioS2(log *logging.DefaultLogger) error {
	q := cslpq.NewKV[cslpq.Uint64Key, *uint64](cslpq.Options{MaxLevel: 8})
	for _, p := range s2Input {
		q.Push(cslpq.Uint64Key(p.priority), p.value)
	}

	var gotKeys []uint64
	seen101 := map[uint64]int{}
	popped := 0
	for {
		key, value, ok := q.TryPop()
		if !ok {
			break
		}
		popped++
		gotKeys = append(gotKeys, uint64(key))
		if key == 101 {
			if value == nil {
				seen101[0]++
			} else {
				seen101[*value]++
			}
		}
	}

	if popped != len(s2Input) {
		return fmt.Errorf("popped %d items, want %d", popped, len(s2Input))
	}
	for i := 1; i < len(gotKeys); i++ {
		if gotKeys[i] < gotKeys[i-1] {
			return fmt.Errorf("popped sequence not non-decreasing at index %d: %d then %d", i, gotKeys[i-1], gotKeys[i])
		}
	}
	if seen101[0] != 1 || seen101[0x10000] != 1 {
		return fmt.Errorf("key 101's two entries did not both survive the drain: %v", seen101)
	}
	log.Debugf(logging.NSSmoketest+"S2 drained %d items in order", popped)
	return nil
}

// scenarioS3 re-pushes the S2 fixture under a composite (priority, value)
// key and checks the drain is non-decreasing lexicographically, restoring
// the std::pair<uint64_t,uint64_t> composite-key test from Func2.cpp.
func scenarioS3(log *logging.DefaultLogger) error {
	type Key = cslpq.PairKey[cslpq.Uint64Key, cslpq.Uint64Key]
	q := cslpq.New[Key](cslpq.Options{MaxLevel: 8})

	for _, p := range s2Input {
		second := uint64(0)
		if p.value != nil {
			second = *p.value
		}
		q.Push(Key{First: cslpq.Uint64Key(p.priority), Second: cslpq.Uint64Key(second)})
	}

	var prev Key
	havePrev := false
	popped := 0
	for {
		key, ok := q.TryPop()
		if !ok {
			break
		}
		popped++
		if havePrev && key.Compare(prev) < 0 {
			return fmt.Errorf("composite key sequence decreased: %+v then %+v", prev, key)
		}
		prev, havePrev = key, true
	}
	if popped != len(s2Input) {
		return fmt.Errorf("popped %d items, want %d", popped, len(s2Input))
	}
	log.Debugf(logging.NSSmoketest+"S3 drained %d composite keys in order", popped)
	return nil
}

