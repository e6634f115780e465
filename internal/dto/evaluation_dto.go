package dto

import "time"

// EvaluateRequest is the payload for grading a student answer against a
// reference answer. StudentAnswer may be empty: a blank answer is still
// evaluated. QuestionID is an opaque pass-through from the dataset.
type EvaluateRequest struct {
	QuestionID      *int   `json:"question_id" validate:"omitempty,gte=0"`
	Question        string `json:"question" validate:"required"`
	ReferenceAnswer string `json:"reference_answer" validate:"required"`
	StudentAnswer   string `json:"student_answer"`
	Language        string `json:"language" validate:"omitempty,max=40"`
}

// EvaluationResponse is the immutable record produced by one evaluation. It
// echoes every request field and adds the judgment branch (raw text plus the
// parsed score) and the lexical overlap branch.
type EvaluationResponse struct {
	QuestionID       *int    `json:"question_id"`
	Question         string  `json:"question"`
	ReferenceAnswer  string  `json:"reference_answer"`
	StudentAnswer    string  `json:"student_answer"`
	Language         string  `json:"language"`
	JudgmentText     string  `json:"judgment_text"`
	Score            int     `json:"score"`
	OverlapUnigramF1 float64 `json:"overlap_unigram_f1"`
	OverlapLCSF1     float64 `json:"overlap_lcs_f1"`
}

// NoviceAnswerRequest asks for a synthesized imperfect student answer.
type NoviceAnswerRequest struct {
	Question string `json:"question" validate:"required"`
}

// NoviceAnswerResponse carries the generated practice answer.
type NoviceAnswerResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// EvaluationLogRecord is the flattened append-only log line: one evaluation,
// the caller's feedback, and the feedback sentiment.
type EvaluationLogRecord struct {
	Timestamp        time.Time `json:"timestamp"`
	QuestionID       *int      `json:"question_id"`
	Question         string    `json:"question"`
	ReferenceAnswer  string    `json:"reference_answer"`
	StudentAnswer    string    `json:"student_answer"`
	Language         string    `json:"language"`
	JudgmentText     string    `json:"judgment_text"`
	Score            int       `json:"score"`
	OverlapUnigramF1 float64   `json:"overlap_unigram_f1"`
	OverlapLCSF1     float64   `json:"overlap_lcs_f1"`
	FeedbackTags     []string  `json:"feedback_tags"`
	FeedbackText     string    `json:"feedback_text"`
	SentimentLabel   string    `json:"sentiment_label"`
	SentimentScore   float64   `json:"sentiment_score"`
}
