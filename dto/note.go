package dto

// NoteRequest is the body accepted by create and update. Missing fields decode as empty
// strings and are rejected by store validation.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
