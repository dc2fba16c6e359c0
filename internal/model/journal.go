package model

type JournalEntry struct {
	Base  `bson:",inline"`
	Title string `db:"title" json:"title,omitempty" bson:"title,omitempty"`
	Body  string `db:"body" json:"body" bson:"body"`
}

type JournalEntryRequest struct {
	Title string `json:"title" validate:"max=200"`
	Body  string `json:"body" validate:"required,max=20000"`
}

type UpdateJournalEntryRequest struct {
	Title *string `json:"title" validate:"omitempty,max=200"`
	Body  *string `json:"body" validate:"omitempty,min=1,max=20000"`
}
