package audit

import "time"

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionSubmit Action = "submit"
	ActionDecide Action = "decide"
)

const (
	EntityBudget     = "budget"
	EntityBudgetItem = "budget_item"
	EntityApproval   = "approval"
	EntityTimesheet  = "timesheet_entry"
)

// Entry is an append-only record of a mutation: who did what to which
// entity, with JSON snapshots of the value before and after.
type Entry struct {
	Id         int
	UserId     int
	Action     Action
	EntityType string
	EntityId   int
	OldValues  string
	NewValues  string
	Timestamp  time.Time
}
