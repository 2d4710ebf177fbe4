package epochs

import "fmt"

// QueueID identifies one hardware queue by its family and the index within
// that family. IDs are assigned at device creation and never change.
type QueueID struct {
	Family int
	Index  int
}

// Compare orders queue IDs by family, then index.
func (q QueueID) Compare(other QueueID) int {
	if q.Family != other.Family {
		return q.Family - other.Family
	}
	return q.Index - other.Index
}

func (q QueueID) String() string {
	return fmt.Sprintf("queue %d.%d", q.Family, q.Index)
}
