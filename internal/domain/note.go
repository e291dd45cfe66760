package domain

import "time"

// Note is a free-text comment thread entry on a task. Notes may be added
// while the task is open and removed only by their author.
type Note struct {
	ID        string
	TaskID    string
	Content   string
	CreatedBy string
	CreatedAt time.Time
}

// File is an attachment linked to a task. Storage mechanics live elsewhere;
// the lifecycle engine only flips the active flag and the task link.
type File struct {
	ID         string
	TaskID     *string
	Name       string
	URL        string
	UploadedBy string
	IsActive   bool
	CreatedAt  time.Time
}
