package route

import "vrpsolve/internal/model"

// Like is the capability set both route flavors share: capacity-only
// and capacity+TW routes are not a base/derived pair, they share
// {IsValidAdditionForCapacity, Add, Remove, Replace}, with TWRoute
// additionally giving its IsValidAdditionForTW a real implementation
// instead of the trivial "always true" RawRoute provides. Heuristics
// and operators are written once against this interface and work
// unmodified over either concrete type -- Go interface satisfaction
// standing in for a trait/capability abstraction instead of
// inheritance.
type Like interface {
	Vehicle() int
	Size() int
	JobRanks() []int
	JobAt(k int) int
	CurrentLoad(k int) model.Amount

	IsValidAdditionForCapacity(in *model.Input, pickup, delivery model.Amount, pos int) bool
	IsValidAdditionForCapacityMargins(in *model.Input, pickup, delivery model.Amount, first, last int) bool
	IsValidAdditionForCapacityInclusion(in *model.Input, delivery model.Amount, seq []int, reverse bool, first, last int) bool
	IsValidAdditionForTW(in *model.Input, jobRank, pos int) bool
	IsValidReplacementForTW(in *model.Input, seq []int, reverse bool, first, last int) bool

	Add(in *model.Input, jobRank, pos int)
	Remove(in *model.Input, pos, count int)
	Replace(in *model.Input, seq []int, first, last int)
	UpdateAmounts(in *model.Input)
}

var (
	_ Like = (*RawRoute)(nil)
	_ Like = (*TWRoute)(nil)
)
