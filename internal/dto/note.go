package dto

// CreateNoteRequest is the JSON body for POST /notes.
type CreateNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdateNoteRequest is the JSON body for PUT /notes/:note_id.
// A nil field is left unchanged.
type UpdateNoteRequest struct {
	Title   *string `json:"title" binding:"required_without=Content"`
	Content *string `json:"content" binding:"required_without=Title"`
}

type NoteResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// MutationResponse is returned by create and update.
type MutationResponse struct {
	Message string `json:"message"`
	NoteID  string `json:"note_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
