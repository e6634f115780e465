package dto

// FeedbackRequest attaches caller feedback to a completed evaluation. The
// evaluation is echoed back in full so the log line stays self-contained.
type FeedbackRequest struct {
	Evaluation EvaluationResponse `json:"evaluation" validate:"required"`
	Tags       []string           `json:"tags" validate:"omitempty,dive,max=60"`
	Text       string             `json:"text" validate:"omitempty,max=2000"`
}

// SentimentResponse is the classified sentiment of feedback text.
type SentimentResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// QuestionResponse is one record from the Q&A dataset.
type QuestionResponse struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
