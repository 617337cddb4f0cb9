package booking

import "github.com/studioflow/shoot-scheduler/internal/httperr"

// ===============================
// Slot Booking Status
// ===============================

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotRequested SlotStatus = "requested"
	SlotConfirmed SlotStatus = "confirmed"
)

// ===============================
// Project Status
// ===============================

type ProjectStatus string

const (
	ProjectOpen         ProjectStatus = "project_open"
	ScriptNeeded        ProjectStatus = "script_needed"
	ScriptSubmitted     ProjectStatus = "script_submitted"
	ScheduleSubmitted   ProjectStatus = "schedule_submitted"
	ScheduleUnderReview ProjectStatus = "schedule_under_review"
	ScheduleFixed       ProjectStatus = "schedule_fixed"
	ShootCompleted      ProjectStatus = "shoot_completed"
	VideoDraft1         ProjectStatus = "video_draft_1"
	FeedbackComplete    ProjectStatus = "feedback_complete"
	VideoEditUploaded   ProjectStatus = "video_edit_uploaded"
	ProjectComplete     ProjectStatus = "project_complete"
	ProjectPending      ProjectStatus = "project_pending"
	// Spelling matches the stored pipeline values.
	ProjectCancled ProjectStatus = "project_cancled"
)

// ===============================
// Validations
// ===============================

// CanRequest define se um slot pode ser solicitado
func CanRequest(status SlotStatus, isOpen bool) error {
	if !isOpen || status != SlotAvailable {
		return httperr.ErrBusiness("slot_unavailable")
	}
	return nil
}

// CanConfirm define se um slot pode ser confirmado para o projeto.
// Um slot já reivindicado por outro projeto nunca pode ser confirmado.
func CanConfirm(status SlotStatus, holder *uint, projectID uint) error {
	switch status {
	case SlotAvailable:
		return nil
	case SlotRequested:
		if holder == nil || *holder != projectID {
			return httperr.ErrBusiness("slot_held_by_other_project")
		}
		return nil
	case SlotConfirmed:
		if holder == nil || *holder != projectID {
			return httperr.ErrBusiness("slot_already_confirmed")
		}
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}

// AdvanceOnRequest devolve o novo status do projeto após um pedido de agenda.
// Projetos que ainda não pediram agenda avançam; os demais ficam como estão.
func AdvanceOnRequest(current ProjectStatus) (ProjectStatus, bool) {
	switch current {
	case ProjectOpen, ScriptNeeded, ScriptSubmitted:
		return ScheduleSubmitted, true
	}
	return current, false
}
