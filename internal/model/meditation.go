package model

type Meditation struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Duration    string `json:"duration" validate:"max=50"`
	Content     string `json:"content" validate:"required"`
}
