package untangle

import "github.com/matzehuels/untangle/pkg/anneal"

// passStats counts what one or more passes did.
type passStats struct {
	accepted int // all swaps taken
	changed  int // swaps with a non-zero delta
}

func (s *passStats) add(o passStats) {
	s.accepted += o.accepted
	s.changed += o.changed
}

// pass scans the candidate positions of layer l once from left to right.
//
// A strictly improving pair is always proposed, a neutral pair is proposed
// with the tie-break probability, and a worsening pair is proposed to the
// schedule. Accepted swaps are applied immediately and the running total is
// moved by the pair's delta.
func (o *Optimizer[K]) pass(l int, sched *anneal.Schedule) passStats {
	var st passStats
	cands := o.candidates[l]
	if len(cands) == 0 {
		return st
	}
	table := o.deltas(l)
	order := o.g.order[l]
	for _, j := range cands {
		delta := table.at(order[j], order[j+1])
		if delta == 0 && o.rng.Float64() >= o.tieBreak {
			continue
		}
		if !sched.Accept(delta) {
			continue
		}
		o.g.swap(l, j)
		o.total += delta
		st.accepted++
		if delta != 0 {
			st.changed++
		}
	}
	return st
}

// sweep visits layers 0..L-1 and then L-2..0, giving each visit the
// configured number of passes.
func (o *Optimizer[K]) sweep(sched *anneal.Schedule) passStats {
	var st passStats
	last := len(o.g.keys) - 1
	for l := 0; l <= last; l++ {
		st.add(o.visit(l, sched))
	}
	for l := last - 1; l >= 0; l-- {
		st.add(o.visit(l, sched))
	}
	return st
}

func (o *Optimizer[K]) visit(l int, sched *anneal.Schedule) passStats {
	var st passStats
	for range o.passes {
		st.add(o.pass(l, sched))
	}
	return st
}
