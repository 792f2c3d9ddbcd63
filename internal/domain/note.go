package domain

// Note is the only persisted entity.
// It has no dependency on gin, the SQL driver or Redis.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}
