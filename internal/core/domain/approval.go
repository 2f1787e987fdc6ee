package domain

import "time"

// ApprovalStatus indicates the state of a single approval step.
type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "Pending"
	ApprovalStatusApproved  ApprovalStatus = "Approved"
	ApprovalStatusRejected  ApprovalStatus = "Rejected"
	ApprovalStatusCancelled ApprovalStatus = "Cancelled"
)

// POApproval is one step of a purchase order's approval chain. Steps are created in a
// single batch at order creation with dense levels 1..N and each leaves Pending exactly
// once: through an approve or reject action, or through the reject cascade.
type POApproval struct {
	ApprovalID string         `json:"approvalID"` // Primary key (UUID)
	POID       string         `json:"poID"`
	ApproverID string         `json:"approverID"`
	Level      int            `json:"level"` // 1-based, unique per PO, no gaps
	Status     ApprovalStatus `json:"status"`
	Remarks    string         `json:"remarks,omitempty"`
	ApprovedAt *time.Time     `json:"approvedAt,omitempty"`

	Approver *User `json:"approver,omitempty"`
}

// ResolvedApprover pairs a concrete user with their position in the chain.
type ResolvedApprover struct {
	UserID string
	Level  int
}
