package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/grid"
)

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] epoch=%d gen=%d %s %s alive=%d", ev.Seq, ev.Epoch, ev.Generation, ev.Verdict, ev.Label, ev.Alive)
		if ev.Reseeded {
			buf.WriteString(" reseeded")
		}
		if ev.Halted {
			buf.WriteString(" halted")
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

func assertFinalAlive(result *Result, a Assertion) error {
	last, ok := result.Last()
	if !ok {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("final alive %d", a.Count), Actual: "empty trace"}
	}
	if last.Alive != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("final alive %d", a.Count),
			Actual:   fmt.Sprintf("final alive %d", last.Alive),
			Trace:    result.Trace,
		}
	}
	return nil
}

func findTick(trace []TraceEvent, seq int64) (TraceEvent, bool) {
	for _, ev := range trace {
		if ev.Seq == seq {
			return ev, true
		}
	}
	return TraceEvent{}, false
}

func assertLabelAt(result *Result, a Assertion) error {
	ev, ok := findTick(result.Trace, a.Tick)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("tick %d labelled %s", a.Tick, a.Label),
			Actual:   fmt.Sprintf("trace has %d ticks", len(result.Trace)),
			Trace:    result.Trace,
		}
	}
	if ev.Label.String() != a.Label {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("tick %d labelled %s", a.Tick, a.Label),
			Actual:   fmt.Sprintf("tick %d labelled %s", a.Tick, ev.Label),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertLoopDetectedAt(result *Result, a Assertion) error {
	for _, ev := range result.Trace {
		if ev.Verdict != engine.LoopDetected {
			continue
		}
		if ev.Seq == a.Tick {
			return nil
		}
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("first loop at tick %d", a.Tick),
			Actual:   fmt.Sprintf("first loop at tick %d", ev.Seq),
			Trace:    result.Trace,
		}
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("first loop at tick %d", a.Tick),
		Actual:   "no loop detected",
		Trace:    result.Trace,
	}
}

func assertFinalPattern(result *Result, a Assertion) error {
	want, err := grid.Parse(a.Pattern)
	if err != nil {
		return err
	}
	if want.String() != result.FinalPattern {
		return &AssertionError{
			Type:     a.Type,
			Expected: "final grid\n" + want.String(),
			Actual:   "final grid\n" + result.FinalPattern,
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertNeverLabel(result *Result, a Assertion) error {
	for _, ev := range result.Trace {
		if ev.Label.String() == a.Label {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("no tick labelled %s", a.Label),
				Actual:   fmt.Sprintf("tick %d labelled %s", ev.Seq, a.Label),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

func assertReseedCount(result *Result, a Assertion) error {
	n := 0
	for _, ev := range result.Trace {
		if ev.Reseeded {
			n++
		}
	}
	if n != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d reseeds", a.Count),
			Actual:   fmt.Sprintf("%d reseeds", n),
			Trace:    result.Trace,
		}
	}
	return nil
}

// EvaluateAssertions checks each assertion against result and returns the
// failure messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertFinalAlive:
			err = assertFinalAlive(result, a)
		case AssertLabelAt:
			err = assertLabelAt(result, a)
		case AssertLoopDetectedAt:
			err = assertLoopDetectedAt(result, a)
		case AssertFinalPattern:
			err = assertFinalPattern(result, a)
		case AssertNeverLabel:
			err = assertNeverLabel(result, a)
		case AssertReseedCount:
			err = assertReseedCount(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}
