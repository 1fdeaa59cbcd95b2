package authz

// Action is the closed set of operations the engine decides on. Adding an
// action here requires a matching arm in the decision table; unmatched
// actions deny.
type Action string

const (
	ActionListRecords   Action = "listRecords"
	ActionCreateRecord  Action = "createRecord"
	ActionUpdateRecord  Action = "updateRecord"
	ActionDeleteRecord  Action = "deleteRecord"
	ActionExportRecords Action = "exportRecords"

	ActionListCustomColumns  Action = "listCustomColumns"
	ActionCreateCustomColumn Action = "createCustomColumn"
	ActionUpdateCustomColumn Action = "updateCustomColumn"
	ActionDeleteCustomColumn Action = "deleteCustomColumn"

	ActionListAgents  Action = "listAgents"
	ActionCreateAgent Action = "createAgent"
	ActionUpdateAgent Action = "updateAgent"

	ActionListSecondaryAdmins  Action = "listSecondaryAdmins"
	ActionCreateSecondaryAdmin Action = "createSecondaryAdmin"
	ActionUpdateSecondaryAdmin Action = "updateSecondaryAdmin"

	ActionViewStats Action = "viewStats"
)

// String implements fmt.Stringer.
func (a Action) String() string {
	return string(a)
}
