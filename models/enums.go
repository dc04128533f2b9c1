package models

// TaskType is the kind of field work a job represents.
type TaskType string

const (
	TaskTypeInstall     TaskType = "install"
	TaskTypeService     TaskType = "service"
	TaskTypeRepair      TaskType = "repair"
	TaskTypeMaintenance TaskType = "maintenance"
	TaskTypeInspection  TaskType = "inspection"
	TaskTypeOther       TaskType = "other"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeInstall, TaskTypeService, TaskTypeRepair, TaskTypeMaintenance, TaskTypeInspection, TaskTypeOther:
		return true
	}
	return false
}

// TaskStatus tracks where a job is in its lifecycle. Any status may be set
// from any other via the edit form.
type TaskStatus string

const (
	TaskStatusScheduled  TaskStatus = "scheduled"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusScheduled, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusScheduled:
		return "Scheduled"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid:
		return true
	}
	return false
}

// AssetCondition values recorded on the asset-task link.
type AssetCondition string

const (
	AssetConditionGood AssetCondition = "good"
	AssetConditionFair AssetCondition = "fair"
	AssetConditionPoor AssetCondition = "poor"
)

func (c AssetCondition) Valid() bool {
	switch c {
	case AssetConditionGood, AssetConditionFair, AssetConditionPoor:
		return true
	}
	return false
}
