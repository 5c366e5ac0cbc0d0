package term

import "hash/maphash"

// Store is the hash-consing term store. All terms of a proving run are built
// through a single Store; the saturation loop owns it after preprocessing.
type Store struct {
	Sig *Signature

	seed    maphash.Seed
	buckets map[uint64][]*Term
	vars    []*Term
	special []*Term
	nextID  uint32
}

// NewStore returns an empty store over the given signature.
func NewStore(sig *Signature) *Store {
	return &Store{
		Sig:     sig,
		seed:    maphash.MakeSeed(),
		buckets: map[uint64][]*Term{},
	}
}

// Variable returns the shared term for ordinary variable v.
func (s *Store) Variable(v int) *Term {
	for len(s.vars) <= v {
		t := &Term{kind: Var, functor: len(s.vars), id: s.nextID, shared: true}
		s.nextID++
		s.vars = append(s.vars, t)
	}
	return s.vars[v]
}

// Special returns the shared term for special variable v. Special variables
// live in a namespace disjoint from ordinary ones.
func (s *Store) Special(v int) *Term {
	for len(s.special) <= v {
		t := &Term{kind: SpecialVar, functor: len(s.special), id: s.nextID, shared: true}
		s.nextID++
		s.special = append(s.special, t)
	}
	return s.special[v]
}

// Create returns the shared compound term functor(args...). The arguments
// must themselves be shared terms of this store.
func (s *Store) Create(functor int, args []*Term) *Term {
	t := &Term{kind: Compound, functor: functor, args: args}
	return s.share(t)
}

// CreateLiteral returns the shared literal pred(args...) with the given
// polarity. Commutative predicates have their arguments put in a canonical
// order (by term identity) before hashing, so that p(a,b) and p(b,a) share.
func (s *Store) CreateLiteral(pred int, positive bool, args []*Term) *Term {
	commutative := s.Sig.Predicate(pred).Symmetric
	if commutative && len(args) == 2 && args[0].id > args[1].id {
		args = []*Term{args[1], args[0]}
	}
	t := &Term{
		kind:        Compound,
		functor:     pred,
		args:        args,
		literal:     true,
		positive:    positive,
		commutative: commutative,
	}
	if pred == Equality && args[0].IsVar() && args[1].IsVar() {
		t.twoVarEq = true
	}
	return s.share(t)
}

// CreateEquality returns the shared equality literal between l and r. For a
// two-variable equality, sort records the sort of the variables.
func (s *Store) CreateEquality(positive bool, l, r *Term, sort int) *Term {
	t := s.CreateLiteral(Equality, positive, []*Term{l, r})
	if t.twoVarEq && t.sort != sort {
		t.sort = sort
	}
	return t
}

// CreateOrientedEquality is like CreateEquality but keeps the arguments in
// the order chosen by the term ordering and records an argument-order hint
// for later ordering queries.
func (s *Store) CreateOrientedEquality(positive bool, l, r *Term, hint uint8) *Term {
	t := &Term{
		kind:        Compound,
		functor:     Equality,
		args:        []*Term{l, r},
		literal:     true,
		positive:    positive,
		commutative: true,
		orderHint:   hint & 7,
	}
	if l.IsVar() && r.IsVar() {
		t.twoVarEq = true
	}
	return s.share(t)
}

// Complement returns the literal with the opposite polarity.
func (s *Store) Complement(lit *Term) *Term {
	if !lit.literal {
		panic("term: Complement on a non-literal")
	}
	return s.CreateLiteral(lit.functor, !lit.positive, lit.args)
}

// share interns t, returning the existing shared copy when one exists.
func (s *Store) share(t *Term) *Term {
	h := s.hash(t)
	for _, u := range s.buckets[h] {
		if equalShape(u, t) {
			return u
		}
	}
	t.id = s.nextID
	s.nextID++
	t.shared = true
	t.weight = 1
	t.varOccs = 0
	t.ground = true
	t.distinctVars = unknownDistinctVars
	for _, a := range t.args {
		if !a.shared {
			panic("term: argument is not a shared term")
		}
		t.weight += a.Weight()
		t.varOccs += a.VarOccs()
		if !a.Ground() {
			t.ground = false
		}
	}
	if t.literal {
		t.interpreted = false
	} else {
		sym := s.Sig.Function(t.functor)
		t.interpreted = sym.Interpreted && len(t.args) == 0
		t.colour = sym.Colour
	}
	s.buckets[h] = append(s.buckets[h], t)
	return t
}

func (s *Store) hash(t *Term) uint64 {
	var h maphash.Hash
	h.SetSeed(s.seed)
	h.WriteByte(byte(t.kind))
	if t.literal {
		h.WriteByte(1)
		if t.positive {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	} else {
		h.WriteByte(0)
		h.WriteByte(0)
	}
	writeInt(&h, t.functor)
	for _, a := range t.args {
		writeInt(&h, int(a.id))
	}
	return h.Sum64()
}

func writeInt(h *maphash.Hash, v int) {
	var buf [8]byte
	u := uint64(v)
	for i := 0; i < 8; i++ {
		buf[i] = byte(u >> (8 * i))
	}
	h.Write(buf[:])
}

// equalShape compares a candidate shared term with a raw one. Argument
// comparison is by identity: arguments are always shared.
func equalShape(u, t *Term) bool {
	if u.kind != t.kind || u.functor != t.functor ||
		u.literal != t.literal || u.positive != t.positive ||
		u.orderHint != t.orderHint || len(u.args) != len(t.args) {
		return false
	}
	for i := range u.args {
		if u.args[i] != t.args[i] {
			return false
		}
	}
	return true
}

// NumTerms returns the number of shared terms created so far.
func (s *Store) NumTerms() int { return int(s.nextID) }
