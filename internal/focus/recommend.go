package focus

import (
	"log"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

const scanningMessage = "Analyzing your tasks for something easier..."

// RecommendationFlow asks the tracker for an easier task and offers to
// switch to it through the modal.
type RecommendationFlow struct {
	tracker ports.Tracker
	modal   *Modal
	logger  *log.Logger
	accept  func(taskID string) Call
	// pending is the task id a query is outstanding for.
	pending string
}

// NewRecommendationFlow wires the flow. accept issues the switch.
func NewRecommendationFlow(tracker ports.Tracker, modal *Modal, logger *log.Logger, accept func(taskID string) Call) *RecommendationFlow {
	return &RecommendationFlow{tracker: tracker, modal: modal, logger: logger, accept: accept}
}

// Request starts a query for an alternative to currentID and replaces the
// modal content with a progress message.
func (f *RecommendationFlow) Request(currentID string) Call {
	if currentID == "" {
		return nil
	}
	f.modal.Show(Dialog{
		Title:        "Finding an alternative",
		Message:      scanningMessage,
		ConfirmLabel: "Hide",
	})
	f.pending = currentID
	return recommendCall(f.tracker, currentID)
}

// Cancel forgets an outstanding query; its answer will be ignored.
func (f *RecommendationFlow) Cancel() {
	f.pending = ""
}

// Pending reports whether a query is outstanding.
func (f *RecommendationFlow) Pending() bool {
	return f.pending != ""
}

// Resolve handles the tracker's answer.
func (f *RecommendationFlow) Resolve(r RecommendDone) {
	if r.CurrentID == "" || r.CurrentID != f.pending {
		return
	}
	f.pending = ""

	if r.Error != nil || r.Rec == nil {
		f.logger.Printf("Warning: recommendation for %s failed: %v", r.CurrentID, r.Error)
		f.modal.Close()
		return
	}

	if !r.Rec.Found {
		msg := r.Rec.Message
		if msg == "" {
			msg = domain.NoRecommendationMessage
		}
		f.modal.Show(Dialog{
			Title:        "Nothing easier right now",
			Message:      msg,
			ConfirmLabel: "OK",
			HideCancel:   true,
		})
		return
	}

	altID := r.Rec.TaskID
	f.modal.Show(Dialog{
		Title:        "Switch tasks?",
		Message:      r.Rec.Message,
		ConfirmLabel: "Switch",
		CancelLabel:  "Stay",
		OnConfirm: func() Call {
			f.modal.Close()
			return f.accept(altID)
		},
	})
}
