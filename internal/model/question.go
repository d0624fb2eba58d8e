package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates supported question kinds. Only multiple choice
// is graded; the type is kept on the wire for forward compatibility.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

// QuestionStatus tracks a bank question through the contributor approval flow.
type QuestionStatus string

const (
	QuestionStatusPending  QuestionStatus = "PENDING"
	QuestionStatusApproved QuestionStatus = "APPROVED"
	QuestionStatusRejected QuestionStatus = "REJECTED"
)

// Question represents a bank question. CorrectAnswer is the choice key and
// must never be serialized into candidate-facing payloads.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	Prompt        string          `json:"question"`
	Type          QuestionType    `json:"type"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"-"`
	Subject       string          `json:"subject"`
	Difficulty    string          `json:"difficulty"`
	Status        QuestionStatus  `json:"status"`
	AuthorID      int             `json:"author_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// QuestionForCandidate is a question stripped for delivery to a candidate.
type QuestionForCandidate struct {
	ID         uuid.UUID       `json:"id"`
	Prompt     string          `json:"question"`
	Type       QuestionType    `json:"type"`
	Options    json.RawMessage `json:"options"`
	Subject    string          `json:"subject"`
	Difficulty string          `json:"difficulty"`
}

// ForCandidate strips the question for candidate delivery.
func (q *Question) ForCandidate() QuestionForCandidate {
	return QuestionForCandidate{
		ID:         q.ID,
		Prompt:     q.Prompt,
		Type:       q.Type,
		Options:    q.Options,
		Subject:    q.Subject,
		Difficulty: q.Difficulty,
	}
}

// SubmitQuestionRequest is the payload for a contributor submitting a
// question to the bank.
type SubmitQuestionRequest struct {
	Prompt        string          `json:"question" binding:"required,min=1,max=2000"`
	Options       json.RawMessage `json:"options" binding:"required"`
	CorrectAnswer string          `json:"correct_answer" binding:"required,max=10"`
	Subject       string          `json:"subject" binding:"omitempty,max=100"`
	Difficulty    string          `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// AttachQuestionsRequest is the payload for attaching approved bank
// questions to an exam, replacing its current set.
type AttachQuestionsRequest struct {
	QuestionIDs []uuid.UUID `json:"question_ids" binding:"required,min=1,dive,required"`
}
