package domain

// ResultStatus - итог партии
type ResultStatus string

const (
	StatusDraw        ResultStatus = "draw"
	StatusRockWin     ResultStatus = "rock_win"
	StatusScissorsWin ResultStatus = "scissors_win"
	StatusPaperWin    ResultStatus = "paper_win"
)

// Choice is one user's committed hand. Created once, never mutated.
type Choice struct {
	User string `json:"user"`
	Hand Hand   `json:"hand"`
}

// Result of a closed session. Winners is nil on a draw and keeps the
// session's user order otherwise.
type Result struct {
	Status  ResultStatus `json:"status"`
	Winners []string     `json:"winners"`
}
