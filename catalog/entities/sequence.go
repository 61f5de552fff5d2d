package entities

// VaccineID identifies a vaccine product independently of its name.
type VaccineID int

// DiseaseID identifies a disease inside a catalog.
type DiseaseID int

// NoVaccine is the zero reference held by a disease whose default vaccine is not yet set.
const NoVaccine VaccineID = -1

// Sequence hands out monotonically increasing identifiers. It is passed explicitly
// to whatever constructs catalog records, so two catalogs built from fresh sequences
// get the same ids. Not safe for concurrent use.
type Sequence[T ~int] struct {
	next T
}

// NewSequence returns a sequence whose first identifier is start.
func NewSequence[T ~int](start T) *Sequence[T] {
	return &Sequence[T]{next: start}
}

// Next returns the next identifier.
func (s *Sequence[T]) Next() T {
	id := s.next
	s.next++
	return id
}

// Peek returns the identifier the next call to Next will hand out.
func (s *Sequence[T]) Peek() T {
	return s.next
}
