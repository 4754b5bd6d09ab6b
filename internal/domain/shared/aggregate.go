package shared

// AggregateRoot marks entities that own a consistency boundary and a
// version used for optimistic locking.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot embeds BaseEntity and carries the lock version.
// Mutating methods on aggregates bump the version; repositories compare
// it against the stored row on save.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// NewBaseAggregateRoot creates a fresh aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// GetVersion returns the current lock version
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the lock version after a mutation
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}
