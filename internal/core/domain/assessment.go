package domain

// Test is an assessment attached to a course.
type Test struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions,omitempty"`
}

// Question belongs to a test. Answers are free text; grading happens on the
// platform.
type Question struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// TestResult is the submission payload for a completed test. Score is filled
// in by the platform; the client always submits zero.
type TestResult struct {
	Test    int64             `json:"test"`
	Answers map[string]string `json:"answers"`
	Score   int               `json:"score"`
}
