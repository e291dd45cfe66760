package domain

import "time"

// Branch is an organizational unit node. Ancestor/descendant containment is
// resolved by string-prefix match over the precomputed materialized path, so
// no tree walk happens at request time.
type Branch struct {
	ID        string
	Name      string
	ParentID  *string
	Path      string // materialized path of ancestor ids, "" for roots
	IsRoot    bool
	CreatedBy string
	CreatedAt time.Time
}

// SubtreePath returns the path prefix shared by every descendant of this
// branch, including the branch itself.
func (b *Branch) SubtreePath() string {
	if b.IsRoot || b.Path == "" {
		return b.ID
	}
	return b.Path + "/" + b.ID
}
