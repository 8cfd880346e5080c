package obj

import "errors"

// ErrInProgress is returned by Result before the driver has finished.
var ErrInProgress = errors.New("compile still in progress")

// Driver runs a compile incrementally so a caller can process a
// bounded number of lines per invocation instead of the whole document
// at once. It never spawns anything; the caller decides when to step,
// and abandoning a driver is always safe.
type Driver struct {
	lines  []string
	next   int // index of the next unconsumed line
	st     *compileState
	done   bool
	groups Groups
	err    error
}

// Start prepares an incremental compile of text.
func Start(text string, cfg Config) *Driver {
	return &Driver{
		lines: splitLines(text),
		st:    newCompileState(cfg),
	}
}

// Step parses and folds up to n non-skippable lines; blank and
// comment-only lines never count against the budget. It returns true
// once the driver is finished, either with a result or with the first
// parse/compile error. Stepping with any batch sizes yields the same
// final result as one unbounded compile.
func (d *Driver) Step(n int) bool {
	if d.done {
		return true
	}
	consumed := 0
	for d.next < len(d.lines) {
		line := d.lines[d.next]
		if skipLine(line) {
			d.next++
			continue
		}
		if consumed >= n {
			return false
		}
		d.next++
		dir, err := ParseLine(line)
		if err != nil {
			d.fail(stampLine(err, d.next))
			return true
		}
		if err := d.st.apply(dir); err != nil {
			d.fail(err)
			return true
		}
		consumed++
	}
	d.st.seal(true)
	d.groups = d.st.groups
	d.done = true
	return true
}

func (d *Driver) fail(err error) {
	d.err = err
	d.done = true
}

// Done reports whether the compile has finished.
func (d *Driver) Done() bool {
	return d.done
}

// Remaining returns the number of input lines not yet consumed,
// skippable lines included.
func (d *Driver) Remaining() int {
	return len(d.lines) - d.next
}

// Result returns the compiled groups once the driver is done. Before
// that it returns ErrInProgress.
func (d *Driver) Result() (Groups, error) {
	if !d.done {
		return nil, ErrInProgress
	}
	return d.groups, d.err
}
