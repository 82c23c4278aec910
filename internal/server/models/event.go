package models

import "time"

// Correction event types. Rectification-class types (AJUSTE, SISTEMA, APP)
// mutate the linked punch directly; the rest create a pending event awaiting
// approval.
const (
	EventJustificativa = "JUSTIFICATIVA"
	EventAtestado      = "ATESTADO"
	EventSistema       = "SISTEMA"
	EventApp           = "APP"
	EventOutro         = "OUTRO"
	EventAfastamento   = "AFST"
	EventAjuste        = "AJUSTE"
)

// Approval states for a correction event.
const (
	ApprovalPending  = "pendente"
	ApprovalApproved = "aprovado"
	ApprovalRejected = "rejeitado"
)

// CorrectionEvent is one rectification or justification request
// ("ponto_eventos"). Created once; the approval workflow transitions
// Approval/ApproverID/ApprovedAt later.
type CorrectionEvent struct {
	ID          int64
	CompanyCode string
	EmployeeID  int64
	// Type is one of the Event* constants.
	Type string
	// WindowStart defaults to the submission time when the request omits it.
	WindowStart time.Time
	// WindowEnd is nil for open-ended events. When present it must not
	// precede WindowStart.
	WindowEnd *time.Time
	// Title is the short reason ("motivo").
	Title string
	// Description is the free-text body ("observacao").
	Description string
	// Attachment is an opaque object-storage key, if one was uploaded.
	Attachment *string
	// Approval is one of the Approval* constants; pending on creation.
	Approval   string
	ApproverID *int64
	ApprovedAt *time.Time
	CreatedAt  time.Time
}
