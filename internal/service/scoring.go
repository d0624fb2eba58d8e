package service

// Score grades a submitted answer mapping against the correct-answer key.
// It is the single authoritative scorer: client-reported scores are never
// consulted. A question absent from the answer mapping counts as incorrect.
// An empty key yields percentage 0 rather than dividing by zero — an exam
// should never reach submission with zero questions, but grading must not
// crash if one does.
func Score(answerKey map[string]string, answers map[string]string) (score, total int, percentage float64) {
	total = len(answerKey)
	if total == 0 {
		return 0, 0, 0
	}

	for questionID, correct := range answerKey {
		if correct == "" {
			continue
		}
		if answers[questionID] == correct {
			score++
		}
	}

	percentage = 100 * float64(score) / float64(total)
	return score, total, percentage
}
