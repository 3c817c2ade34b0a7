package domain

import "time"

// Word is a single vocabulary entry inside a wordbook.
type Word struct {
	ID           int64  `json:"id"`
	Text         string `json:"text"`
	Meaning      string `json:"meaning"`
	PartOfSpeech string `json:"part_of_speech,omitempty"`
	Example      string `json:"example_sentence,omitempty"`
}

// Wordbook is a named word collection owned by a teacher and assigned to students.
type Wordbook struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OwnerID     int64     `json:"owner_id"`
	Words       []Word    `json:"words"`
	StudentIDs  []int64   `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccessibleBy reports whether a user may read the wordbook: its owner or an
// assigned student.
func (wb Wordbook) AccessibleBy(userID int64) bool {
	if wb.OwnerID == userID {
		return true
	}
	for _, id := range wb.StudentIDs {
		if id == userID {
			return true
		}
	}
	return false
}
