package versioning

import (
	"sort"

	"roadmap-backend/domain/core/valueobjects"
)

// ContentDiff is the structural difference between two versions of a
// roadmap's content. The three sets are pairwise disjoint: a topic is
// either new, gone, or present in both versions with a changed
// payload. Slices are sorted by id for reproducible output.
type ContentDiff struct {
	Added    []valueobjects.TopicID `json:"added"`
	Removed  []valueobjects.TopicID `json:"removed"`
	Modified []valueobjects.TopicID `json:"modified"`
}

// IsEmpty reports whether the diff carries no changes
func (d *ContentDiff) IsEmpty() bool {
	return d == nil || (len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0)
}

// TopicIDs returns every id the diff touches
func (d *ContentDiff) TopicIDs() []valueobjects.TopicID {
	if d == nil {
		return nil
	}
	out := make([]valueobjects.TopicID, 0, len(d.Added)+len(d.Removed)+len(d.Modified))
	out = append(out, d.Added...)
	out = append(out, d.Removed...)
	out = append(out, d.Modified...)
	return out
}

// Differ computes structural diffs between content versions
type Differ struct{}

// NewDiffer creates a new differ
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares two content versions. A nil oldDoc means first-time
// content creation: every topic in newDoc is an addition. A topic
// present in both versions is modified when its text or data payload
// differs. Identical documents short-circuit on checksum.
func (df *Differ) Diff(oldDoc, newDoc *valueobjects.GraphDocument) *ContentDiff {
	diff := &ContentDiff{}

	if oldDoc != nil && newDoc != nil && oldDoc.Checksum() == newDoc.Checksum() {
		return diff
	}

	oldIDs := oldDoc.Topics()
	newIDs := newDoc.Topics()

	oldSet := make(map[valueobjects.TopicID]struct{}, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = struct{}{}
	}
	newSet := make(map[valueobjects.TopicID]struct{}, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = struct{}{}
	}

	for _, id := range newIDs {
		if _, ok := oldSet[id]; !ok {
			diff.Added = append(diff.Added, id)
		}
	}

	for _, id := range oldIDs {
		if _, ok := newSet[id]; !ok {
			diff.Removed = append(diff.Removed, id)
			continue
		}

		oldDetails, _ := oldDoc.TopicDetails(id)
		newDetails, _ := newDoc.TopicDetails(id)
		if !oldDetails.Equals(newDetails) {
			diff.Modified = append(diff.Modified, id)
		}
	}

	sortTopicIDs(diff.Added)
	sortTopicIDs(diff.Removed)
	sortTopicIDs(diff.Modified)

	return diff
}

func sortTopicIDs(ids []valueobjects.TopicID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}
