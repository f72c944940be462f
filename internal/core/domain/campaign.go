package domain

import "time"

// Campaign represents a single fundraising campaign. Goal and Raised are
// stored in integer token units. Deadline is a unix-seconds timestamp fixed
// at creation and immutable thereafter. Raised only ever increases, and only
// while Completed is false. Completed transitions false to true exactly once
// when the campaign is finalized; records are never deleted.
type Campaign struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Goal        int64     `json:"goal"`
	Deadline    int64     `json:"deadline"`
	Owner       string    `json:"owner"`
	Raised      int64     `json:"raised"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expired reports whether the deadline has passed at the given unix time.
// A contribution arriving exactly at the deadline is still accepted.
func (c *Campaign) Expired(now int64) bool {
	return now > c.Deadline
}

// GoalReached reports whether the campaign has raised at least its goal.
// Evaluated at finalization time it decides the success/failure branch;
// over-funding above the goal is allowed and paid out in full.
func (c *Campaign) GoalReached() bool {
	return c.Raised >= c.Goal
}
