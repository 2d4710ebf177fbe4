package resource

// FakeReclaimer records reclaim calls for tests.
type FakeReclaimer struct {
	Reclaimed []ReclaimCall
}

type ReclaimCall struct {
	Kind  Kind
	Index int
}

func (r *FakeReclaimer) Reclaim(kind Kind, index int) {
	r.Reclaimed = append(r.Reclaimed, ReclaimCall{Kind: kind, Index: index})
}
