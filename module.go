// Package lemke enumerates Nash equilibria of two-player strategic-form
// games with the Lemke-Howson algorithm.
//
// Starting from the artificial equilibrium, every complementary path is
// followed from every complementary basis found so far until no new basis
// is reached. Each basis other than the artificial one is an equilibrium.
package lemke

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/lemke/game"
	"github.com/timpalpant/lemke/tableau"
)

var (
	pivotsPerformed = expvar.NewInt("lemke/pivots")
	pathsFollowed   = expvar.NewInt("lemke/paths")
	cbfsFound       = expvar.NewInt("lemke/cbfs_found")
	failedPaths     = expvar.NewInt("lemke/failed_paths")
)

// Creator identifies solutions found by this package.
const Creator = "Lemke"

// Params configures a single enumeration run.
type Params struct {
	// DupStrat selects the label dropped from the artificial equilibrium.
	// Zero explores every path from every basis found; k > 0 follows only
	// the path dropping label k.
	DupStrat int
	// Trace is the verbosity of TraceWriter: 0 is silent, 1 reports the
	// pivot total and 2 or more dumps every basis found.
	Trace int
	// StopAfter stops the enumeration once this many equilibria have
	// been found. With Verify only equilibria passing the Nash check are
	// counted. Zero means no limit.
	StopAfter int
	// TraceWriter receives trace output. Nil discards it.
	TraceWriter io.Writer
	// Verify checks each solution against the Nash condition before
	// accepting it.
	Verify bool
}

func (p Params) traceWriter() io.Writer {
	if p.TraceWriter == nil {
		return io.Discard
	}
	return p.TraceWriter
}

// Outcome is the overall result of an enumeration run.
type Outcome int

const (
	Success Outcome = iota
	// Malformed input: the game does not have two players, the support
	// is empty or does not belong to the game, or the label is out of
	// range.
	Malformed
	// Infeasible means that a path did not reach a complementary basis,
	// which happens only when pivots vanish within the field's tolerance.
	// Solutions found on the other paths are kept.
	Infeasible
	// Aborted means that the context was cancelled. Solutions found so
	// far are kept.
	Aborted
)

var outcomeStr = [...]string{
	"Success",
	"Malformed",
	"Infeasible",
	"Aborted",
}

func (o Outcome) String() string {
	return outcomeStr[o]
}

// Truth is a property of a solution that may not have been checked.
type Truth int8

const (
	Unknown Truth = iota
	Yes
	No
)

var truthStr = [...]string{
	"Unknown",
	"Yes",
	"No",
}

func (t Truth) String() string {
	return truthStr[t]
}

// MixedSolution is an equilibrium found by the enumeration.
type MixedSolution[T any] struct {
	Profile   game.MixedProfile[T]
	Creator   string
	IsNash    Truth
	IsPerfect Truth
}

// Module runs the Lemke-Howson enumeration on one game and support.
type Module[T any] struct {
	g       *game.Game[T]
	support game.Support
	params  Params

	list      *tableau.BFSList[T]
	solutions []MixedSolution[T]
	nPivots   int
	nFound    int
	nFailed   int
	elapsed   time.Duration
}

// NewModule returns a module solving g restricted to support.
func NewModule[T any](g *game.Game[T], params Params, support game.Support) *Module[T] {
	return &Module[T]{
		g:       g,
		support: support,
		params:  params,
	}
}

// Lemke runs the enumeration. Solutions, pivot count and elapsed time are
// available from the module afterwards. The returned error is non-nil only
// if the tableau could not be constructed for a valid game.
func (m *Module[T]) Lemke(ctx context.Context) (Outcome, error) {
	start := time.Now()
	defer func() { m.elapsed = time.Since(start) }()

	m.list = nil
	m.solutions = nil
	m.nPivots = 0
	m.nFound = 0
	m.nFailed = 0

	if m.g == nil {
		return Malformed, nil
	}
	m.list = tableau.NewBFSList(m.g.Field())
	if err := m.g.Validate(); err != nil {
		glog.V(1).Infof("Not solving malformed game: %v", err)
		return Malformed, nil
	}
	if m.support.IsEmpty() {
		glog.V(1).Infof("Not solving game with empty support %v", m.support)
		return Malformed, nil
	}
	if err := m.g.ValidateSupport(m.support); err != nil {
		glog.V(1).Infof("Not solving game with mismatched support: %v", err)
		return Malformed, nil
	}

	B, err := NewLHTableau(m.g, m.support)
	if err != nil {
		return Malformed, errors.Wrap(err, "building Lemke-Howson tableau")
	}
	dup := m.params.DupStrat
	if dup < 0 || dup > B.MaxCol() {
		glog.V(1).Infof("Label %d out of range [%d, %d]", dup, B.MinCol(), B.MaxCol())
		return Malformed, nil
	}

	outcome := Success
	if dup == 0 {
		outcome = m.AllLemke(ctx, B)
	} else if ctx.Err() != nil {
		outcome = Aborted
	} else {
		pathsFollowed.Add(1)
		ok := B.LemkePath(dup)
		m.nPivots += B.NumPivots()
		if ok {
			m.AddBFS(B)
		} else {
			m.pathFailed(dup)
		}
	}
	if outcome == Success && m.nFailed > 0 {
		outcome = Infeasible
	}
	pivotsPerformed.Add(int64(m.nPivots))

	w := m.params.traceWriter()
	if m.params.Trace >= 2 {
		for _, cbfs := range m.list.Items() {
			cbfs.Dump(w, m.g.Field())
			fmt.Fprintln(w)
		}
	}
	if m.params.Trace >= 1 {
		fmt.Fprintf(w, "N Pivots = %d\n", m.nPivots)
	}
	glog.V(1).Infof("Lemke: %v after %d pivots, %d bases found", outcome, m.nPivots, m.list.Len())

	m.AddSolutions(outcome == Aborted)
	return outcome, nil
}

// frame is an entry of the AllLemke work stack: a complementary basis,
// the label of the path that reached it, and the next label to try.
type frame[T any] struct {
	tab     *LHTableau[T]
	arrived int
	next    int
}

// AllLemke records B and then, depth first, every basis reachable from it
// by following a path for each label other than the one that led to the
// current basis. Each path starts from a fresh copy of its parent. Paths
// that fail are dropped and counted; the caller reports them.
func (m *Module[T]) AllLemke(ctx context.Context, B *LHTableau[T]) Outcome {
	m.nPivots += B.NumPivots()
	if !m.AddBFS(B) {
		return Success
	}

	stack := []frame[T]{{tab: B, arrived: 0, next: B.MinCol()}}
	for len(stack) > 0 {
		if m.params.StopAfter > 0 && m.nFound >= m.params.StopAfter {
			glog.V(1).Infof("Stopping after %d equilibria", m.nFound)
			return Success
		}

		top := &stack[len(stack)-1]
		if top.next > top.tab.MaxCol() {
			stack = stack[:len(stack)-1]
			continue
		}
		label := top.next
		top.next++
		if label == top.arrived {
			continue
		}
		if ctx.Err() != nil {
			return Aborted
		}

		child := top.tab.Copy()
		child.ResetPivots()
		ok := child.LemkePath(label)
		pathsFollowed.Add(1)
		m.nPivots += child.NumPivots()
		if !ok {
			m.pathFailed(label)
			continue
		}
		if m.AddBFS(child) {
			stack = append(stack, frame[T]{tab: child, arrived: label, next: child.MinCol()})
		}
	}

	return Success
}

// AddBFS records the basis of B. It returns false if the basis was
// already known.
func (m *Module[T]) AddBFS(B *LHTableau[T]) bool {
	cbfs := B.BFS()
	if m.list.Contains(cbfs) {
		return false
	}

	if m.params.Trace >= 2 {
		w := m.params.traceWriter()
		fmt.Fprint(w, "\nFound CBFS\nB = ")
		B.Dump(w)
		fmt.Fprint(w, "\ncbfs = ")
		cbfs.Dump(w, m.g.Field())
		fmt.Fprintln(w)
	}

	m.list.Append(cbfs)
	cbfsFound.Add(1)
	if profile, ok := m.normalize(cbfs); ok && (!m.params.Verify || profile.IsNash(m.g)) {
		m.nFound++
	}
	return true
}

func (m *Module[T]) pathFailed(label int) {
	glog.Warningf("Path dropping label %d did not reach a complementary basis", label)
	failedPaths.Add(1)
	m.nFailed++
}

// normalize converts a basis into a mixed profile over the full game. It
// returns false if either player's weights sum to zero.
func (m *Module[T]) normalize(cbfs tableau.BFS[T]) (game.MixedProfile[T], bool) {
	f := m.g.Field()
	profile := game.NewMixedProfile(m.g)

	offset := 0
	for p := game.Player0; p <= game.Player1; p++ {
		strats := m.support.Strategies(p)
		sum := f.Zero()
		for k := range strats {
			if v, ok := cbfs.Value(offset + k + 1); ok {
				sum = f.Add(sum, v)
			}
		}
		if f.Sign(sum) == 0 {
			return profile, false
		}

		for k, s := range strats {
			if v, ok := cbfs.Value(offset + k + 1); ok {
				profile.Probs[p][s] = f.Div(v, sum)
			}
		}
		offset += len(strats)
	}

	return profile, true
}

// AddSolutions converts every recorded basis into a solution. Bases in
// which a player has no weight (the artificial equilibrium) are skipped.
// Solutions are tagged as Nash and perfect unless verification is
// requested, or the run was aborted, in which case each profile must pass
// the Nash check to be kept.
func (m *Module[T]) AddSolutions(aborted bool) {
	m.solutions = nil
	verify := m.params.Verify || aborted
	for _, cbfs := range m.list.Items() {
		profile, ok := m.normalize(cbfs)
		if !ok {
			continue
		}

		sol := MixedSolution[T]{Profile: profile, Creator: Creator}
		if verify {
			if !profile.IsNash(m.g) {
				glog.Warningf("Discarding profile that is not a Nash equilibrium: %v",
					profile.Format(m.g.Field()))
				continue
			}
			sol.IsNash = Yes
		} else {
			sol.IsNash = Yes
			sol.IsPerfect = Yes
		}
		m.solutions = append(m.solutions, sol)
	}
}

// Solutions returns the equilibria of the last run, in discovery order.
func (m *Module[T]) Solutions() []MixedSolution[T] {
	return m.solutions
}

// NumPivots returns the total number of pivots of the last run.
func (m *Module[T]) NumPivots() int {
	return m.nPivots
}

// Elapsed returns the wall time of the last run.
func (m *Module[T]) Elapsed() time.Duration {
	return m.elapsed
}

// List returns the bases visited by the last run, in discovery order.
func (m *Module[T]) List() *tableau.BFSList[T] {
	return m.list
}

// Solve enumerates the equilibria of g over its full support.
func Solve[T any](ctx context.Context, g *game.Game[T], params Params) ([]MixedSolution[T], Outcome, error) {
	if g == nil {
		return nil, Malformed, nil
	}
	m := NewModule(g, params, game.FullSupport(g))
	outcome, err := m.Lemke(ctx)
	return m.Solutions(), outcome, err
}
